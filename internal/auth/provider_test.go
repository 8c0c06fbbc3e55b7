package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/twitch-client/internal/auth"
)

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	t.Run("serves fixed token", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewStaticProvider("cid", "tok", auth.TokenKindUser)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "tok", token.AccessToken)
		assert.Equal(t, "cid", provider.ClientID())
		assert.Equal(t, auth.TokenKindUser, provider.TokenKind())
	})

	t.Run("empty token means unauthenticated", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewStaticProvider("cid", "", auth.TokenKindApp)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}

func TestAppTokenProvider(t *testing.T) {
	t.Parallel()

	t.Run("fetches with client credentials", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "/token", r.URL.Path)
			assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
			assert.Equal(t, "cid", r.FormValue("client_id"))
			assert.Equal(t, "secret", r.FormValue("client_secret"))
			assert.Equal(t, "chat:read chat:edit", r.FormValue("scope"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"app-tok","token_type":"bearer","expires_in":5000}`))
		}))
		defer server.Close()

		provider := auth.NewAppTokenProvider("cid", "secret", []string{"chat:read", "chat:edit"}, server.URL)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "app-tok", token.AccessToken)
		assert.False(t, token.ExpiresAt.IsZero())

		// Second acquisition reuses the cached token.
		_, err = provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("refresh discards cached token", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			_, _ = w.Write([]byte(`{"access_token":"app-tok","expires_in":5000}`))
		}))
		defer server.Close()

		provider := auth.NewAppTokenProvider("cid", "secret", nil, server.URL)

		_, err := provider.GetToken(context.Background())
		require.NoError(t, err)

		_, err = provider.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewAppTokenProvider("cid", "", nil, "")

		_, err := provider.GetToken(context.Background())
		assert.ErrorIs(t, err, auth.ErrNoCredentials)
	})

	t.Run("error response surfaced", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"status":403,"message":"invalid client secret"}`))
		}))
		defer server.Close()

		provider := auth.NewAppTokenProvider("cid", "bad-secret", nil, server.URL)

		_, err := provider.GetToken(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrTokenRequest)
		assert.Contains(t, err.Error(), "invalid client secret")
	})
}

func TestRefreshingProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid token served without refresh", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewRefreshingProvider("cid", "secret", "tok", "refresh-tok", "http://127.0.0.1:0")

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", token.AccessToken)
	})

	t.Run("refresh rotates refresh token", func(t *testing.T) {
		t.Parallel()

		var gotRefreshToken atomic.Value

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			gotRefreshToken.Store(r.FormValue("refresh_token"))

			_, _ = w.Write([]byte(`{"access_token":"new-tok","refresh_token":"rotated","expires_in":5000}`))
		}))
		defer server.Close()

		provider := auth.NewRefreshingProvider("cid", "secret", "stale", "original", server.URL)

		token, err := provider.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-tok", token.AccessToken)
		assert.Equal(t, "original", gotRefreshToken.Load())

		// The rotated refresh token is used on the next refresh.
		_, err = provider.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rotated", gotRefreshToken.Load())
	})

	t.Run("expired token refreshed on acquisition", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"fresh","expires_in":5000}`))
		}))
		defer server.Close()

		// No initial access token forces a refresh on first use.
		provider := auth.NewRefreshingProvider("cid", "secret", "", "refresh-tok", server.URL)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", token.AccessToken)
	})

	t.Run("persistence hook invoked", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"new-tok","refresh_token":"rotated","expires_in":5000}`))
		}))
		defer server.Close()

		provider := auth.NewRefreshingProvider("cid", "secret", "", "refresh-tok", server.URL)

		var persisted *auth.Token

		provider.OnRefresh = func(token *auth.Token) {
			persisted = token
		}

		_, err := provider.Refresh(context.Background())
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, "new-tok", persisted.AccessToken)
		assert.Equal(t, "rotated", persisted.RefreshToken)
	})

	t.Run("no refresh token", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewRefreshingProvider("cid", "secret", "", "", "http://127.0.0.1:0")

		_, err := provider.GetToken(context.Background())
		assert.ErrorIs(t, err, auth.ErrNoCredentials)
	})
}
