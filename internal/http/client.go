package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/twitch-client/internal/auth"
	"github.com/fivetwenty-io/twitch-client/internal/constants"
	"github.com/fivetwenty-io/twitch-client/internal/ratelimit"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// DefaultUserAgent identifies this client on the wire.
const DefaultUserAgent = "twitch-client/1.0"

// Logger interface for HTTP logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client runs the authenticated call pipeline: credential acquisition,
// request construction, rate-limited dispatch for the Helix group, the
// one-shot refresh-and-retry on 401, and response decoding.
type Client struct {
	retryClient *retryablehttp.Client
	provider    auth.Provider
	limiter     *ratelimit.Limiter
	roots       Roots
	userAgent   string
	logger      Logger
	debug       bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes transport-level retries for connection errors
// and 5xx responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient injects the underlying transport.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient = httpClient
	}
}

// WithRoots overrides the endpoint group roots. Used by tests.
func WithRoots(roots Roots) Option {
	return func(c *Client) {
		c.roots = roots
	}
}

// NewClient creates an HTTP client for the call pipeline. The provider
// may be nil, in which case all calls go out unauthenticated.
func NewClient(provider auth.Provider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		retryClient: retryClient,
		provider:    provider,
		limiter:     ratelimit.New(),
		roots:       DefaultRoots(),
		userAgent:   DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Limiter exposes the Helix rate limiter for bucket introspection.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// Do runs the full pipeline for one logical call.
func (c *Client) Do(ctx context.Context, req *twitch.Request) (*Response, error) {
	var (
		token    *auth.Token
		clientID string
		err      error
	)

	if c.provider != nil {
		clientID = c.provider.ClientID()

		token, err = c.provider.GetToken(ctx, req.Scopes...)
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}
	}

	accessToken := ""
	if token != nil {
		accessToken = token.AccessToken
	}

	resp, err := c.dispatch(ctx, req, clientID, accessToken)
	if err != nil {
		return nil, err
	}

	// One refresh-and-retry cycle on 401 when the provider supports
	// refresh. A second 401 is surfaced, never retried again.
	if resp.StatusCode == nethttp.StatusUnauthorized && token != nil {
		refresher, ok := c.provider.(auth.Refresher)
		if ok {
			retryResp, retried, retryErr := c.retryUnauthorized(ctx, req, refresher, clientID)
			if retryErr != nil {
				return nil, retryErr
			}

			if retried {
				resp = retryResp
			}
		}
	}

	return decode(resp)
}

// DoStatic dispatches with an explicit client ID and token, bypassing
// the credential provider. Used for bootstrap calls such as token
// issuance and introspection.
func (c *Client) DoStatic(ctx context.Context, req *twitch.Request, clientID, accessToken string) (*Response, error) {
	resp, err := c.dispatch(ctx, req, clientID, accessToken)
	if err != nil {
		return nil, err
	}

	return decode(resp)
}

// retryUnauthorized refreshes the token, re-acquires it with the same
// scopes, and re-dispatches exactly once. When no token is available
// after the refresh, the original failed response stands.
func (c *Client) retryUnauthorized(ctx context.Context, req *twitch.Request, refresher auth.Refresher, clientID string) (*Response, bool, error) {
	_, err := refresher.Refresh(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("token refresh after 401 failed", map[string]interface{}{
				"error": err.Error(),
			})
		}

		return nil, false, nil
	}

	token, err := c.provider.GetToken(ctx, req.Scopes...)
	if err != nil || token == nil {
		return nil, false, nil
	}

	resp, err := c.dispatch(ctx, req, clientID, token.AccessToken)
	if err != nil {
		return nil, false, err
	}

	return resp, true, nil
}

// dispatch builds and sends one request, routing Helix calls through
// the rate limiter and refreshing the bucket from response metadata.
func (c *Client) dispatch(ctx context.Context, req *twitch.Request, clientID, accessToken string) (*Response, error) {
	httpReq, err := BuildRequest(ctx, req, c.roots, clientID, accessToken)
	if err != nil {
		return nil, err
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	isHelix := req.Group == "" || req.Group == twitch.EndpointHelix
	if isHelix {
		err = c.limiter.Acquire(ctx)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.send(httpReq)
	if err != nil {
		return nil, err
	}

	if isHelix {
		err = c.limiter.UpdateFromHeaders(resp.Headers)
		if err != nil {
			return nil, fmt.Errorf("refreshing rate limit bucket: %w", err)
		}
	}

	return resp, nil
}

// send performs the wire round trip.
func (c *Client) send(httpReq *nethttp.Request) (*Response, error) {
	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": httpReq.Method,
			"url":    httpReq.URL.String(),
		})
	}

	retryReq, err := retryablehttp.FromRequest(httpReq)
	if err != nil {
		return nil, fmt.Errorf("preparing request: %w", err)
	}

	httpResp, err := c.retryClient.Do(retryReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	resp, err := readResponse(httpResp)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      httpReq.Method,
			"url":         httpReq.URL.String(),
			"status_code": resp.StatusCode,
		})
	}

	return resp, nil
}
