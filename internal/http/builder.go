package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// Roots holds the base URLs for the endpoint groups. Tests override
// them to point at local servers.
type Roots struct {
	Helix  string
	Kraken string
	Auth   string
}

// DefaultRoots returns the production API roots.
func DefaultRoots() Roots {
	return Roots{
		Helix:  constants.HelixRoot,
		Kraken: constants.KrakenRoot,
		Auth:   constants.AuthRoot,
	}
}

// BuildRequest turns a request descriptor, an optional client ID, and
// an optional access token into a transport-ready *http.Request. It is
// a pure transform over its inputs.
func BuildRequest(ctx context.Context, req *twitch.Request, roots Roots, clientID, accessToken string) (*nethttp.Request, error) {
	method := req.Method
	if method == "" {
		method = nethttp.MethodGet
	}

	requestURL, err := resolveURL(req, roots)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	applyGroupHeaders(httpReq, req, clientID, accessToken)

	if contentType != "" {
		httpReq.Header.Set(constants.HeaderContentType, contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// resolveURL joins the group root with the path and serializes the
// query. Custom requests use the path as an absolute URL.
func resolveURL(req *twitch.Request, roots Roots) (string, error) {
	var base string

	switch group(req) {
	case twitch.EndpointHelix:
		base = roots.Helix
	case twitch.EndpointKraken:
		base = roots.Kraken
	case twitch.EndpointAuth:
		base = roots.Auth
	case twitch.EndpointCustom:
		return appendQuery(req.Path, req), nil
	default:
		return "", fmt.Errorf("%w: unknown endpoint group %q", twitch.ErrUnknownOperation, req.Group)
	}

	requestURL := strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(req.Path, "/")

	return appendQuery(requestURL, req), nil
}

// appendQuery serializes the query mapping, omitting the query string
// entirely when empty. Repeated keys serialize as repeated parameters.
func appendQuery(requestURL string, req *twitch.Request) string {
	if len(req.Query) == 0 {
		return requestURL
	}

	return requestURL + "?" + req.Query.Encode()
}

// encodeBody encodes the request body. A form body takes precedence
// over a JSON body when both are present.
func encodeBody(req *twitch.Request) (*bytes.Reader, string, error) {
	if len(req.Form) > 0 {
		return bytes.NewReader([]byte(req.Form.Encode())), constants.ContentTypeForm, nil
	}

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}

		return bytes.NewReader(data), constants.ContentTypeJSON, nil
	}

	return bytes.NewReader(nil), "", nil
}

// applyGroupHeaders sets the accept, client ID, and authorization
// headers according to the endpoint group rules.
func applyGroupHeaders(httpReq *nethttp.Request, req *twitch.Request, clientID, accessToken string) {
	endpointGroup := group(req)

	switch endpointGroup {
	case twitch.EndpointKraken:
		version := req.Version
		if version == 0 {
			version = constants.DefaultKrakenVersion
		}

		httpReq.Header.Set(constants.HeaderAccept, fmt.Sprintf(constants.KrakenAcceptFormat, version))
	case twitch.EndpointCustom:
		// Custom requests control their own headers.
	default:
		httpReq.Header.Set(constants.HeaderAccept, constants.AcceptJSON)
	}

	if clientID != "" && endpointGroup != twitch.EndpointAuth {
		httpReq.Header.Set(constants.HeaderClientID, clientID)
	}

	if accessToken != "" {
		scheme := constants.LegacyScheme
		if endpointGroup == twitch.EndpointHelix {
			scheme = constants.BearerScheme
		}

		httpReq.Header.Set(constants.HeaderAuthorization, scheme+" "+accessToken)
	}
}

// group returns the descriptor's endpoint group, defaulting to Helix.
func group(req *twitch.Request) twitch.EndpointGroup {
	if req.Group == "" {
		return twitch.EndpointHelix
	}

	return req.Group
}
