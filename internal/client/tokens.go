package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// TokensClient implements twitch.TokensClient. Its calls bypass the
// credential provider: introspection and issuance operate on explicit
// tokens (bootstrap mode).
type TokensClient struct {
	client *Client
}

// NewTokensClient creates a new tokens client.
func NewTokensClient(client *Client) *TokensClient {
	return &TokensClient{client: client}
}

// Validate implements twitch.TokensClient.Validate. A 401 from the
// introspection endpoint means the token itself is unusable and is
// surfaced as an *twitch.InvalidTokenError.
func (c *TokensClient) Validate(ctx context.Context, token string) (*twitch.TokenInfo, error) {
	resp, err := c.client.httpClient.DoStatic(ctx, &twitch.Request{
		Group: twitch.EndpointAuth,
		Path:  "validate",
	}, c.client.clientID, token)
	if err != nil {
		apiErr := &twitch.APIError{}
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, &twitch.InvalidTokenError{Underlying: apiErr}
		}

		return nil, fmt.Errorf("validating token: %w", err)
	}

	var info twitch.TokenInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing token info: %w", err)
	}

	return &info, nil
}

// Revoke implements twitch.TokensClient.Revoke.
func (c *TokensClient) Revoke(ctx context.Context, token string) error {
	_, err := c.client.httpClient.DoStatic(ctx, &twitch.Request{
		Group:  twitch.EndpointAuth,
		Path:   "revoke",
		Method: http.MethodPost,
		Form: url.Values{
			"client_id": []string{c.client.clientID},
			"token":     []string{token},
		},
	}, c.client.clientID, "")
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	return nil
}

// RequestAppToken implements twitch.TokensClient.RequestAppToken.
func (c *TokensClient) RequestAppToken(ctx context.Context, clientSecret string, scopes []string) (*twitch.IssuedToken, error) {
	if clientSecret == "" {
		return nil, twitch.ErrClientSecretRequired
	}

	form := url.Values{
		"client_id":     []string{c.client.clientID},
		"client_secret": []string{clientSecret},
		"grant_type":    []string{"client_credentials"},
	}
	if len(scopes) > 0 {
		form.Set("scope", strings.Join(scopes, " "))
	}

	resp, err := c.client.httpClient.DoStatic(ctx, &twitch.Request{
		Group:  twitch.EndpointAuth,
		Path:   "token",
		Method: http.MethodPost,
		Form:   form,
	}, c.client.clientID, "")
	if err != nil {
		return nil, fmt.Errorf("requesting app token: %w", err)
	}

	var token twitch.IssuedToken

	err = json.Unmarshal(resp.Body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &token, nil
}
