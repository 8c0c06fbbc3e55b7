package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoCredentials = errors.New("no valid credentials available")
	ErrTokenRequest  = errors.New("token request failed")
)

// TokenKind tags whether a provider supplies user or app tokens.
type TokenKind string

const (
	// TokenKindUser marks tokens obtained on behalf of a user.
	TokenKindUser TokenKind = "user"

	// TokenKindApp marks tokens obtained with client credentials.
	TokenKindApp TokenKind = "app"
)

// Provider supplies access tokens to the call pipeline. A provider may
// return a nil token with a nil error, in which case calls proceed
// unauthenticated with only the client ID attached (bootstrap mode).
type Provider interface {
	// GetToken returns a usable token, optionally scoped. Providers
	// refresh expired tokens internally before returning them.
	GetToken(ctx context.Context, scopes ...string) (*Token, error)

	// ClientID returns the application client ID.
	ClientID() string

	// TokenKind reports whether the provider issues user or app tokens.
	TokenKind() TokenKind
}

// Refresher is implemented by providers whose tokens can be renewed.
// The call pipeline uses it for the one-shot retry after a 401.
//
// Refresh is safe to call concurrently; each provider serializes its
// own refreshes, but two in-flight calls may still each trigger one
// (an accepted benign race, not deduplicated).
type Refresher interface {
	Refresh(ctx context.Context) (*Token, error)
}

// StaticProvider serves a fixed token. It cannot refresh.
type StaticProvider struct {
	clientID string
	kind     TokenKind
	store    *TokenStore
}

// NewStaticProvider creates a provider around an existing token string.
// An empty token yields a provider that only supplies the client ID.
func NewStaticProvider(clientID, accessToken string, kind TokenKind) *StaticProvider {
	store := NewTokenStore()
	if accessToken != "" {
		store.Set(&Token{AccessToken: accessToken})
	}

	return &StaticProvider{clientID: clientID, kind: kind, store: store}
}

// GetToken returns the fixed token, or nil when none was configured.
func (p *StaticProvider) GetToken(ctx context.Context, scopes ...string) (*Token, error) {
	return p.store.Get(), nil
}

// ClientID returns the application client ID.
func (p *StaticProvider) ClientID() string {
	return p.clientID
}

// TokenKind reports the configured token kind.
func (p *StaticProvider) TokenKind() TokenKind {
	return p.kind
}

// AppTokenProvider obtains app tokens with the client_credentials
// grant and re-requests them when they expire. Refresh discards the
// current token and fetches a new one.
type AppTokenProvider struct {
	clientID     string
	clientSecret string
	scopes       []string
	authURL      string
	store        *TokenStore
	httpClient   *http.Client
	mu           sync.Mutex
}

// NewAppTokenProvider creates a client-credentials provider. authURL
// overrides the token issuance root when non-empty (used by tests).
func NewAppTokenProvider(clientID, clientSecret string, scopes []string, authURL string) *AppTokenProvider {
	if authURL == "" {
		authURL = constants.AuthRoot
	}

	return &AppTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       scopes,
		authURL:      authURL,
		store:        NewTokenStore(),
		httpClient:   &http.Client{Timeout: constants.ShortHTTPTimeout},
	}
}

// GetToken returns the cached app token, fetching a new one when the
// cached token is missing or expired.
func (p *AppTokenProvider) GetToken(ctx context.Context, scopes ...string) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token := p.store.Get(); token.Valid() {
		return token, nil
	}

	return p.fetchLocked(ctx)
}

// Refresh discards the current token and obtains a fresh one.
func (p *AppTokenProvider) Refresh(ctx context.Context) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.Clear()

	return p.fetchLocked(ctx)
}

// ClientID returns the application client ID.
func (p *AppTokenProvider) ClientID() string {
	return p.clientID
}

// TokenKind reports TokenKindApp.
func (p *AppTokenProvider) TokenKind() TokenKind {
	return TokenKindApp
}

func (p *AppTokenProvider) fetchLocked(ctx context.Context) (*Token, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return nil, ErrNoCredentials
	}

	form := url.Values{
		"client_id":     []string{p.clientID},
		"client_secret": []string{p.clientSecret},
		"grant_type":    []string{"client_credentials"},
	}
	if len(p.scopes) > 0 {
		form.Set("scope", strings.Join(p.scopes, " "))
	}

	token, err := requestToken(ctx, p.httpClient, p.authURL, form)
	if err != nil {
		return nil, err
	}

	p.store.Set(token)

	return token, nil
}

// RefreshingProvider manages a user token that can be renewed with the
// refresh_token grant.
type RefreshingProvider struct {
	clientID     string
	clientSecret string
	authURL      string
	store        *TokenStore
	httpClient   *http.Client
	mu           sync.Mutex
	refreshToken string

	// OnRefresh, when set, is invoked with each newly obtained token
	// so callers can persist it. Called outside the provider lock.
	OnRefresh func(token *Token)
}

// NewRefreshingProvider creates a refreshable user-token provider. The
// initial access token may be empty; the first call then refreshes.
func NewRefreshingProvider(clientID, clientSecret, accessToken, refreshToken, authURL string) *RefreshingProvider {
	if authURL == "" {
		authURL = constants.AuthRoot
	}

	store := NewTokenStore()
	if accessToken != "" {
		store.Set(&Token{AccessToken: accessToken, RefreshToken: refreshToken})
	}

	return &RefreshingProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      authURL,
		store:        store,
		httpClient:   &http.Client{Timeout: constants.ShortHTTPTimeout},
		refreshToken: refreshToken,
	}
}

// GetToken returns the current user token, refreshing it first when it
// is expired.
func (p *RefreshingProvider) GetToken(ctx context.Context, scopes ...string) (*Token, error) {
	if token := p.store.Get(); token.Valid() {
		return token, nil
	}

	return p.Refresh(ctx)
}

// Refresh renews the token with the refresh_token grant. Rotated
// refresh tokens replace the stored one.
func (p *RefreshingProvider) Refresh(ctx context.Context) (*Token, error) {
	p.mu.Lock()

	if p.refreshToken == "" {
		p.mu.Unlock()

		return nil, ErrNoCredentials
	}

	form := url.Values{
		"client_id":     []string{p.clientID},
		"client_secret": []string{p.clientSecret},
		"grant_type":    []string{"refresh_token"},
		"refresh_token": []string{p.refreshToken},
	}

	token, err := requestToken(ctx, p.httpClient, p.authURL, form)
	if err != nil {
		p.mu.Unlock()

		return nil, err
	}

	if token.RefreshToken != "" {
		p.refreshToken = token.RefreshToken
	}

	p.store.Set(token)
	onRefresh := p.OnRefresh
	p.mu.Unlock()

	if onRefresh != nil {
		onRefresh(token)
	}

	return token, nil
}

// ClientID returns the application client ID.
func (p *RefreshingProvider) ClientID() string {
	return p.clientID
}

// TokenKind reports TokenKindUser.
func (p *RefreshingProvider) TokenKind() TokenKind {
	return TokenKindUser
}

// requestToken posts a grant request to the token endpoint and decodes
// the resulting token, stamping its expiry time.
func requestToken(ctx context.Context, httpClient *http.Client, authURL string, form url.Values) (*Token, error) {
	tokenURL := strings.TrimSuffix(authURL, "/") + "/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set(constants.HeaderContentType, constants.ContentTypeForm)
	req.Header.Set(constants.HeaderAccept, constants.AcceptJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		}

		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrTokenRequest, errResp.Message, resp.StatusCode)
		}

		return nil, fmt.Errorf("%w: status %d", ErrTokenRequest, resp.StatusCode)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}
