package twitch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorBody is the JSON error payload returned by the Twitch API.
type ErrorBody struct {
	Error   string `json:"error"   yaml:"error"`
	Status  int    `json:"status"  yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// APIError represents a non-2xx response from the API. It carries the
// HTTP status code, the status text, and the parsed JSON error body.
type APIError struct {
	StatusCode int        `json:"status_code" yaml:"status_code"`
	Status     string     `json:"status"      yaml:"status"`
	Body       *ErrorBody `json:"body"        yaml:"body"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != nil && e.Body.Message != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Body.Error, e.Body.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s (status: %d)", e.Status, e.StatusCode)
}

// InvalidTokenError is returned when token introspection rejects the
// token with a 401. It is distinct from a generic APIError so callers
// can tell "token unusable" apart from "resource forbidden".
type InvalidTokenError struct {
	Underlying *APIError
}

// Error implements the error interface.
func (e *InvalidTokenError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("invalid token: %s", e.Underlying.Error())
	}

	return "invalid token"
}

// Unwrap exposes the underlying HTTP status error.
func (e *InvalidTokenError) Unwrap() error {
	return e.Underlying
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired          = errors.New("config is required")
	ErrClientIDRequired        = errors.New("client ID is required")
	ErrClientSecretRequired    = errors.New("client secret is required")
	ErrNoCredentialProvider    = errors.New("no credential provider configured")
	ErrMissingRateLimitHeaders = errors.New("response is missing rate limit headers")
	ErrUnknownOperation        = errors.New("unknown operation")
	ErrCacheDisabled           = errors.New("cache disabled")
	ErrNATSConfigRequired      = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType    = errors.New("unsupported cache type")
)

// IsNotFound checks if the error is a 404 status error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is a 401 status error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsInvalidToken checks if the error came from token introspection
// rejecting the token.
func IsInvalidToken(err error) bool {
	invalidErr := &InvalidTokenError{}

	return errors.As(err, &invalidErr)
}

// ParseErrorBody parses an API error payload from JSON.
func ParseErrorBody(data []byte) (*ErrorBody, error) {
	var body ErrorBody

	err := json.Unmarshal(data, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal error body: %w", err)
	}

	return &body, nil
}
