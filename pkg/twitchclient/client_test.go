package twitchclient_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
	"github.com/fivetwenty-io/twitch-client/pkg/twitchclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := twitchclient.New(nil)
		assert.ErrorIs(t, err, twitch.ErrConfigRequired)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()

		_, err := twitchclient.New(&twitch.Config{AccessToken: "tok"})
		assert.ErrorIs(t, err, twitch.ErrClientIDRequired)
	})

	t.Run("static token client", func(t *testing.T) {
		t.Parallel()

		apiClient, err := twitchclient.New(&twitch.Config{ClientID: "cid", AccessToken: "tok"})
		require.NoError(t, err)
		assert.Equal(t, "cid", apiClient.ClientID())
	})
}

func TestNew_EndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "cid", r.Header.Get("Client-ID"))

		w.Header().Set("Ratelimit-Remaining", "799")
		w.Header().Set("Ratelimit-Limit", "800")
		w.Header().Set("Ratelimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
		_, _ = w.Write([]byte(`{"data":[{"id":"123","login":"alice"}]}`))
	}))
	defer server.Close()

	apiClient, err := twitchclient.New(&twitch.Config{
		ClientID:    "cid",
		AccessToken: "tok",
		HelixURL:    server.URL,
	})
	require.NoError(t, err)

	users, err := apiClient.Users().Get(context.Background(), &twitch.UserQuery{Logins: []string{"alice"}})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Login)
}
