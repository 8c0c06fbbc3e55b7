package constants

import "errors"

// Static errors shared by the CLI and internal packages.
var (
	ErrNoClientConfigured  = errors.New("no client configured, run 'twitchctl login' first")
	ErrNoRefreshToken      = errors.New("no refresh token available")
	ErrNoTokenConfigured   = errors.New("no access token configured")
	ErrInvalidJWTFormat    = errors.New("token is not a JWT")
	ErrNoExpirationClaim   = errors.New("no expiration claim in token")
	ErrFailedRetrieveToken = errors.New("failed to retrieve token after refresh")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
)
