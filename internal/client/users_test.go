package client_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

func TestUsersGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/helix/users", r.URL.Path)
		assert.Equal(t, []string{"alice", "bob"}, r.URL.Query()["login"])
		assert.Equal(t, []string{"123"}, r.URL.Query()["id"])

		writeHelix(w, nethttp.StatusOK, `{"data":[
			{"id":"123","login":"alice","display_name":"Alice"},
			{"id":"456","login":"bob","display_name":"Bob"}
		]}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	users, err := apiClient.Users().Get(context.Background(), &twitch.UserQuery{
		IDs:    []string{"123"},
		Logins: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Login)
	assert.Equal(t, "Bob", users[1].DisplayName)
}

func TestUsersGet_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeHelix(w, nethttp.StatusBadRequest, `{"error":"Bad Request","status":400,"message":"too many login values"}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	_, err := apiClient.Users().Get(context.Background(), nil)
	require.Error(t, err)

	var apiErr *twitch.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, nethttp.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "getting users")
}

func TestUsersUpdate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPut, r.Method)
		assert.Equal(t, "new bio", r.URL.Query().Get("description"))
		writeHelix(w, nethttp.StatusOK, `{"data":[{"id":"123","login":"alice","description":"new bio"}]}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	user, err := apiClient.Users().Update(context.Background(), "new bio")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new bio", user.Description)
}

func TestStreamsList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/helix/streams", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("first"))
		assert.Equal(t, []string{"alice"}, r.URL.Query()["user_login"])

		writeHelix(w, nethttp.StatusOK, `{
			"data":[{"id":"s1","user_login":"alice","type":"live","viewer_count":42}],
			"pagination":{"cursor":"next-page"}
		}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	page, err := apiClient.Streams().List(context.Background(), &twitch.StreamQuery{
		UserLogins: []string{"alice"},
		First:      20,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 42, page.Data[0].ViewerCount)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, "next-page", page.Pagination.Cursor)
}

func TestGamesGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/helix/games", r.URL.Path)
		writeHelix(w, nethttp.StatusOK, `{"data":[{"id":"33214","name":"Fortnite"}]}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	games, err := apiClient.Games().Get(context.Background(), &twitch.GameQuery{Names: []string{"Fortnite"}})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "33214", games[0].ID)
}

func TestGamesTop(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/helix/games/top", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("first"))
		writeHelix(w, nethttp.StatusOK, `{"data":[{"id":"1","name":"A"}],"pagination":{"cursor":"c"}}`)
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	page, err := apiClient.Games().Top(context.Background(), 5, "")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
}

func TestChannelsGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/kraken/channels/44322889", r.URL.Path)
		assert.Equal(t, "application/vnd.twitchtv.v5+json", r.Header.Get("Accept"))
		assert.Equal(t, "OAuth tok", r.Header.Get("Authorization"))

		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{"_id":"44322889","name":"dallas","status":"Working on stuff"}`))
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	channel, err := apiClient.Channels().Get(context.Background(), "44322889")
	require.NoError(t, err)
	assert.Equal(t, "44322889", channel.ID)
	assert.Equal(t, "Working on stuff", channel.Status)
}

func TestChannelsUpdate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{"_id":"44322889","status":"New title"}`))
	}))
	defer server.Close()

	apiClient := newTestClient(t, server.URL, nil)

	status := "New title"

	channel, err := apiClient.Channels().Update(context.Background(), "44322889", &twitch.ChannelUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "New title", channel.Status)
}
