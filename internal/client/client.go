// Package client implements the twitch.Client interface on top of the
// internal call pipeline.
package client

import (
	"time"

	"github.com/fivetwenty-io/twitch-client/internal/auth"
	"github.com/fivetwenty-io/twitch-client/internal/constants"
	"github.com/fivetwenty-io/twitch-client/internal/http"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// Client implements the twitch.Client interface.
type Client struct {
	httpClient *http.Client
	provider   auth.Provider
	cache      twitch.Cache
	cacheTTL   time.Duration
	logger     twitch.Logger
	clientID   string

	users    twitch.UsersClient
	streams  twitch.StreamsClient
	games    twitch.GamesClient
	channels twitch.ChannelsClient
	tokens   twitch.TokensClient
}

// New creates a new Twitch API client, selecting the credential
// provider matching the configured credentials.
func New(config *twitch.Config) (*Client, error) {
	if config == nil {
		return nil, twitch.ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, twitch.ErrClientIDRequired
	}

	return NewWithProvider(config, createProvider(config))
}

// NewWithProvider creates a client with a custom credential provider.
func NewWithProvider(config *twitch.Config, provider auth.Provider) (*Client, error) {
	if config == nil {
		return nil, twitch.ErrConfigRequired
	}

	if provider == nil {
		return nil, twitch.ErrNoCredentialProvider
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(provider, httpOpts...)

	cache, err := twitch.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, err
	}

	cacheTTL := constants.DefaultCacheTTL
	if config.Cache != nil && config.Cache.TTL > 0 {
		cacheTTL = config.Cache.TTL
	}

	client := &Client{
		httpClient: httpClient,
		provider:   provider,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     config.Logger,
		clientID:   provider.ClientID(),
	}

	client.initializeResourceClients()

	return client, nil
}

// createProvider picks the credential provider variant matching the
// configured credentials.
func createProvider(config *twitch.Config) auth.Provider {
	if config.AccessToken != "" && config.RefreshToken != "" && config.ClientSecret != "" {
		return auth.NewRefreshingProvider(
			config.ClientID,
			config.ClientSecret,
			config.AccessToken,
			config.RefreshToken,
			config.AuthURL,
		)
	}

	if config.AccessToken != "" {
		return auth.NewStaticProvider(config.ClientID, config.AccessToken, auth.TokenKindUser)
	}

	if config.ClientSecret != "" {
		return auth.NewAppTokenProvider(config.ClientID, config.ClientSecret, config.Scopes, config.AuthURL)
	}

	// Bootstrap mode: client ID only, calls go out unauthenticated.
	return auth.NewStaticProvider(config.ClientID, "", auth.TokenKindApp)
}

// createHTTPClientOptions builds pipeline options from config.
func createHTTPClientOptions(config *twitch.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.AuthURL != "" || config.HelixURL != "" || config.KrakenURL != "" {
		roots := http.DefaultRoots()

		if config.AuthURL != "" {
			roots.Auth = config.AuthURL
		}

		if config.HelixURL != "" {
			roots.Helix = config.HelixURL
		}

		if config.KrakenURL != "" {
			roots.Kraken = config.KrakenURL
		}

		httpOpts = append(httpOpts, http.WithRoots(roots))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.users = NewUsersClient(c)
	c.streams = NewStreamsClient(c)
	c.games = NewGamesClient(c)
	c.channels = NewChannelsClient(c)
	c.tokens = NewTokensClient(c)
}

// ClientID implements twitch.Client.ClientID.
func (c *Client) ClientID() string {
	return c.clientID
}

// Users implements twitch.Client.Users.
func (c *Client) Users() twitch.UsersClient {
	return c.users
}

// Streams implements twitch.Client.Streams.
func (c *Client) Streams() twitch.StreamsClient {
	return c.streams
}

// Games implements twitch.Client.Games.
func (c *Client) Games() twitch.GamesClient {
	return c.games
}

// Channels implements twitch.Client.Channels.
func (c *Client) Channels() twitch.ChannelsClient {
	return c.channels
}

// Tokens implements twitch.Client.Tokens.
func (c *Client) Tokens() twitch.TokensClient {
	return c.tokens
}

// loggerAdapter adapts twitch.Logger to http.Logger.
type loggerAdapter struct {
	logger twitch.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
