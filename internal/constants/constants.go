package constants

import "time"

// API roots for the Twitch endpoint groups.
const (
	// HelixRoot is the base URL for the Helix (new) API.
	HelixRoot = "https://api.twitch.tv/helix"

	// KrakenRoot is the base URL for the Kraken (v5) API.
	KrakenRoot = "https://api.twitch.tv/kraken"

	// AuthRoot is the base URL for token issuance and introspection.
	AuthRoot = "https://id.twitch.tv/oauth2"
)

// Header names and media types.
const (
	// HeaderClientID carries the application client ID.
	HeaderClientID = "Client-ID"

	// HeaderAuthorization carries the access token.
	HeaderAuthorization = "Authorization"

	// HeaderAccept negotiates the response media type.
	HeaderAccept = "Accept"

	// HeaderContentType declares the request body encoding.
	HeaderContentType = "Content-Type"

	// AcceptJSON is the accept header for Helix and Auth calls.
	AcceptJSON = "application/json"

	// KrakenAcceptFormat encodes the Kraken API version into a vendor
	// media type, e.g. application/vnd.twitchtv.v5+json.
	KrakenAcceptFormat = "application/vnd.twitchtv.v%d+json"

	// ContentTypeForm is the content type for URL-encoded bodies.
	ContentTypeForm = "application/x-www-form-urlencoded"

	// ContentTypeJSON is the content type for JSON bodies.
	ContentTypeJSON = "application/json"
)

// Authorization schemes per endpoint group.
const (
	// BearerScheme is used for Helix calls.
	BearerScheme = "Bearer"

	// LegacyScheme is used for Kraken and Auth calls.
	LegacyScheme = "OAuth"
)

// DefaultKrakenVersion is the Kraken API version used when a call does
// not request one explicitly.
const DefaultKrakenVersion = 5

// Rate limit response headers for the Helix group.
const (
	// HeaderRateLimitRemaining reports remaining bucket capacity.
	HeaderRateLimitRemaining = "Ratelimit-Remaining"

	// HeaderRateLimitLimit reports total bucket capacity.
	HeaderRateLimitLimit = "Ratelimit-Limit"

	// HeaderRateLimitReset reports the bucket reset time (unix seconds).
	HeaderRateLimitReset = "Ratelimit-Reset"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token posts.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits for the transport layer.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Token handling.
const (
	// TokenExpiryBuffer is subtracted from token lifetimes so tokens are
	// refreshed slightly before the server-side expiry.
	TokenExpiryBuffer = 30 * time.Second

	// TokenPartsCount is the number of dot-separated JWT segments.
	TokenPartsCount = 3
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Cache tunables.
const (
	// DefaultCacheSize is the maximum number of in-memory cache entries.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default lifetime of a cached response.
	DefaultCacheTTL = 1 * time.Minute
)
