package auth

import (
	"sync"
	"time"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
)

// Token represents an access token and its metadata. Tokens are
// immutable once created; a refresh produces a new Token replacing the
// old one in the store.
type Token struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int64    `json:"expires_in,omitempty"`
	Scope        []string `json:"scope,omitempty"`

	// ExpiresAt is computed from ExpiresIn when the token is obtained.
	ExpiresAt time.Time `json:"-"`
}

// Valid reports whether the token is usable. A token expiring within
// the expiry buffer counts as invalid so it is refreshed before the
// server rejects it.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpiryBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token with synchronized access.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil when none is set.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
