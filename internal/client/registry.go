package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// operation is a request template for one logical API operation. The
// registry keeps the per-resource surface flat: one table entry per
// operation instead of one bespoke method per endpoint.
type operation struct {
	group     twitch.EndpointGroup
	path      string
	method    string
	queryKeys []string
	scopes    []string
}

// operations maps operation names to request templates. Path segments
// of the form {name} are substituted from the call parameters.
var operations = map[string]operation{
	"users.get": {
		group:     twitch.EndpointHelix,
		path:      "users",
		queryKeys: []string{"id", "login"},
	},
	"users.follows": {
		group:     twitch.EndpointHelix,
		path:      "users/follows",
		queryKeys: []string{"from_id", "to_id", "first", "after"},
	},
	"streams.list": {
		group:     twitch.EndpointHelix,
		path:      "streams",
		queryKeys: []string{"user_id", "user_login", "game_id", "language", "first", "after"},
	},
	"games.get": {
		group:     twitch.EndpointHelix,
		path:      "games",
		queryKeys: []string{"id", "name"},
	},
	"games.top": {
		group:     twitch.EndpointHelix,
		path:      "games/top",
		queryKeys: []string{"first", "after"},
	},
	"clips.get": {
		group:     twitch.EndpointHelix,
		path:      "clips",
		queryKeys: []string{"id", "broadcaster_id", "game_id", "first", "after"},
	},
	"videos.get": {
		group:     twitch.EndpointHelix,
		path:      "videos",
		queryKeys: []string{"id", "user_id", "game_id", "first", "after"},
	},
	"channels.get": {
		group: twitch.EndpointKraken,
		path:  "channels/{channel_id}",
	},
	"channels.followers": {
		group:     twitch.EndpointKraken,
		path:      "channels/{channel_id}/follows",
		queryKeys: []string{"limit", "cursor"},
	},
}

// Operations returns the sorted names of all registered operations.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// CallOperation implements twitch.Client.CallOperation. Parameters
// fill {name} path segments first; the rest become query parameters.
// Comma-separated values serialize as repeated query keys.
func (c *Client) CallOperation(ctx context.Context, name string, params map[string]string) (json.RawMessage, error) {
	template, ok := operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", twitch.ErrUnknownOperation, name)
	}

	path := template.path
	query := url.Values{}

	for key, value := range params {
		placeholder := "{" + key + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))

			continue
		}

		if !containsKey(template.queryKeys, key) {
			return nil, fmt.Errorf("%w: operation %q does not accept parameter %q", twitch.ErrUnknownOperation, name, key)
		}

		for _, part := range strings.Split(value, ",") {
			query.Add(key, part)
		}
	}

	if strings.Contains(path, "{") {
		return nil, fmt.Errorf("%w: operation %q is missing a path parameter", twitch.ErrUnknownOperation, name)
	}

	return c.Call(ctx, &twitch.Request{
		Group:  template.group,
		Path:   path,
		Method: template.method,
		Query:  query,
		Scopes: template.scopes,
	})
}

func containsKey(keys []string, key string) bool {
	for _, candidate := range keys {
		if candidate == key {
			return true
		}
	}

	return false
}
