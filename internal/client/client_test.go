package client_test

import (
	nethttp "net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/twitch-client/internal/auth"
	"github.com/fivetwenty-io/twitch-client/internal/client"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

func writeHelix(w nethttp.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Ratelimit-Remaining", "799")
	w.Header().Set("Ratelimit-Limit", "800")
	w.Header().Set("Ratelimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, serverURL string, config *twitch.Config) *client.Client {
	t.Helper()

	if config == nil {
		config = &twitch.Config{ClientID: "cid", AccessToken: "tok"}
	}

	config.HelixURL = serverURL + "/helix"
	config.KrakenURL = serverURL + "/kraken"
	config.AuthURL = serverURL + "/oauth2"

	apiClient, err := client.New(config)
	require.NoError(t, err)

	return apiClient
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(nil)
		assert.ErrorIs(t, err, twitch.ErrConfigRequired)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&twitch.Config{AccessToken: "tok"})
		assert.ErrorIs(t, err, twitch.ErrClientIDRequired)
	})

	t.Run("client ID alone is enough", func(t *testing.T) {
		t.Parallel()

		apiClient, err := client.New(&twitch.Config{ClientID: "cid"})
		require.NoError(t, err)
		assert.Equal(t, "cid", apiClient.ClientID())
		assert.NotNil(t, apiClient.Users())
		assert.NotNil(t, apiClient.Streams())
		assert.NotNil(t, apiClient.Games())
		assert.NotNil(t, apiClient.Channels())
		assert.NotNil(t, apiClient.Tokens())
	})

	t.Run("invalid cache config rejected", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&twitch.Config{
			ClientID: "cid",
			Cache:    &twitch.CacheConfig{Type: twitch.CacheType("bogus")},
		})
		assert.ErrorIs(t, err, twitch.ErrUnsupportedCacheType)
	})
}

func TestNewWithProvider(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewStaticProvider("cid", "tok", auth.TokenKindUser)

		_, err := client.NewWithProvider(nil, provider)
		assert.ErrorIs(t, err, twitch.ErrConfigRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		t.Parallel()

		_, err := client.NewWithProvider(&twitch.Config{ClientID: "cid"}, nil)
		assert.ErrorIs(t, err, twitch.ErrNoCredentialProvider)
	})

	t.Run("client ID comes from the provider", func(t *testing.T) {
		t.Parallel()

		provider := auth.NewStaticProvider("provider-cid", "tok", auth.TokenKindUser)

		apiClient, err := client.NewWithProvider(&twitch.Config{}, provider)
		require.NoError(t, err)
		assert.Equal(t, "provider-cid", apiClient.ClientID())
		assert.NotNil(t, apiClient.Users())
		assert.NotNil(t, apiClient.Tokens())
	})
}
