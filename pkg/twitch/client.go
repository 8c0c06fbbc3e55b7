package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// EndpointGroup selects which API family a call targets. Each group
// has its own root URL, authorization scheme, and versioning rules.
type EndpointGroup string

const (
	// EndpointHelix targets the Helix API. Helix calls are subject to
	// the shared request bucket and are dispatched through the rate
	// limiter.
	EndpointHelix EndpointGroup = "helix"

	// EndpointKraken targets the legacy Kraken (v5) API.
	EndpointKraken EndpointGroup = "kraken"

	// EndpointAuth targets the token issuance and introspection API.
	EndpointAuth EndpointGroup = "auth"

	// EndpointCustom treats the request path as an absolute URL.
	EndpointCustom EndpointGroup = "custom"
)

// Request describes a single logical API call. It is an immutable
// value; the call pipeline never mutates it.
type Request struct {
	// Group selects the endpoint family. Defaults to EndpointHelix.
	Group EndpointGroup
	// Path is relative to the group root, or absolute for EndpointCustom.
	Path string
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Query parameters; repeated keys serialize as repeated parameters.
	Query url.Values
	// Form is a URL-encoded request body. Takes precedence over Body.
	Form url.Values
	// Body is an arbitrary JSON payload. Ignored when Form is set.
	Body interface{}
	// Scopes the token must carry for this call, if any.
	Scopes []string
	// Version selects the Kraken API version for content negotiation.
	// Zero means the default version. Ignored by the other groups.
	Version int
	// Headers are additional headers applied after the group rules.
	Headers map[string]string
}

// DataResponse is the standard Helix response envelope.
type DataResponse[T any] struct {
	Data       []T         `json:"data"                 yaml:"data"`
	Pagination *Pagination `json:"pagination,omitempty" yaml:"pagination,omitempty"`
	Total      int         `json:"total,omitempty"      yaml:"total,omitempty"`
}

// Pagination carries the Helix pagination cursor.
type Pagination struct {
	Cursor string `json:"cursor" yaml:"cursor"`
}

// UsersClient provides access to Helix user resources.
type UsersClient interface {
	Get(ctx context.Context, params *UserQuery) ([]User, error)
	Update(ctx context.Context, description string) (*User, error)
}

// StreamsClient provides access to Helix stream resources.
type StreamsClient interface {
	List(ctx context.Context, params *StreamQuery) (*DataResponse[Stream], error)
}

// GamesClient provides access to Helix game resources.
type GamesClient interface {
	Get(ctx context.Context, params *GameQuery) ([]Game, error)
	Top(ctx context.Context, first int, after string) (*DataResponse[Game], error)
}

// ChannelsClient provides access to legacy Kraken channel resources.
type ChannelsClient interface {
	Get(ctx context.Context, channelID string) (*Channel, error)
	Update(ctx context.Context, channelID string, update *ChannelUpdate) (*Channel, error)
}

// TokensClient provides access to token issuance and introspection.
type TokensClient interface {
	// Validate introspects the given token. A 401 is surfaced as an
	// *InvalidTokenError rather than a plain *APIError.
	Validate(ctx context.Context, token string) (*TokenInfo, error)
	// Revoke invalidates the given token.
	Revoke(ctx context.Context, token string) error
	// RequestAppToken issues a new app token via client credentials.
	RequestAppToken(ctx context.Context, clientSecret string, scopes []string) (*IssuedToken, error)
}

// Client is the public surface of the Twitch API client.
type Client interface {
	Users() UsersClient
	Streams() StreamsClient
	Games() GamesClient
	Channels() ChannelsClient
	Tokens() TokensClient

	// Call sends a raw request descriptor through the full pipeline
	// (credential acquisition, rate limiting, refresh-and-retry) and
	// returns the decoded JSON body. A nil result with a nil error
	// means the API returned an empty success response.
	Call(ctx context.Context, req *Request) (json.RawMessage, error)

	// CallOperation looks the named operation up in the operation
	// registry and dispatches it with the given parameters.
	CallOperation(ctx context.Context, name string, params map[string]string) (json.RawMessage, error)

	// ClientID returns the client ID this client authenticates with.
	ClientID() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a twitch.Client.
//
// # Authentication precedence
//
//  1. AccessToken alone: used as a static token. No refresh is
//     possible; a 401 is surfaced to the caller.
//  2. AccessToken + RefreshToken + ClientSecret: the token is used
//     until it expires or a call returns 401, then renewed with the
//     refresh_token grant.
//  3. ClientID + ClientSecret: an app token is obtained with the
//     client_credentials grant and re-requested on expiry.
//  4. ClientID alone: calls are sent unauthenticated with only the
//     Client-ID header (bootstrap mode, sufficient for token issuance
//     and introspection).
type Config struct {
	// ClientID identifies the application. Required.
	ClientID string
	// ClientSecret is used for the client_credentials and refresh_token
	// grants.
	ClientSecret string
	// AccessToken, if set, is used directly.
	AccessToken string
	// RefreshToken enables renewal of an expired user token.
	RefreshToken string
	// Scopes requested when issuing app tokens.
	Scopes []string

	// AuthURL overrides the token issuance root. Intended for tests
	// and mock servers.
	AuthURL string
	// HelixURL overrides the Helix API root. Intended for tests and
	// mock servers.
	HelixURL string
	// KrakenURL overrides the Kraken API root. Intended for tests and
	// mock servers.
	KrakenURL string

	// RetryMax is the maximum number of transport-level retries for
	// connection errors and 5xx responses. If 0 a default is used.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP logging when a Logger is provided.
	Debug bool
	// Logger is the optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient optionally injects the underlying transport. Used by
	// tests and callers that need custom proxies or TLS settings.
	HTTPClient *http.Client

	// Cache configures response caching for Helix GET calls. Nil
	// disables caching.
	Cache *CacheConfig
}
