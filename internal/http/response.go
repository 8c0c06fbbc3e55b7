package http

import (
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Headers    nethttp.Header
	Body       []byte
}

// readResponse drains and closes the response body.
func readResponse(httpResp *nethttp.Response) (*Response, error) {
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// decode classifies the HTTP outcome. Non-2xx responses yield an
// *twitch.APIError carrying the parsed JSON error body. 204 and empty
// success bodies yield an empty result with no error; the upstream API
// is known to omit bodies where one is expected.
func decode(resp *Response) (*Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &twitch.APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}

		if len(resp.Body) > 0 {
			body, err := twitch.ParseErrorBody(resp.Body)
			if err != nil {
				return resp, err
			}

			apiErr.Body = body
		}

		return resp, apiErr
	}

	if resp.StatusCode == nethttp.StatusNoContent || len(resp.Body) == 0 {
		resp.Body = nil

		return resp, nil
	}

	return resp, nil
}
