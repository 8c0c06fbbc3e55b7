package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// Call implements twitch.Client.Call. It dispatches the descriptor
// through the full pipeline and returns the decoded JSON body. Helix
// GET responses are served from the cache when one is configured.
func (c *Client) Call(ctx context.Context, req *twitch.Request) (json.RawMessage, error) {
	cacheable := c.isCacheable(req)
	key := requestCacheKey(req)

	if cacheable {
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			return entry.Data, nil
		}
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	var raw json.RawMessage

	err = json.Unmarshal(resp.Body, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing response body: %w", err)
	}

	if cacheable {
		_ = c.cache.Set(ctx, key, &twitch.CacheEntry{
			Data:      raw,
			ExpiresAt: time.Now().Add(c.cacheTTL),
			ETag:      resp.Headers.Get("Etag"),
		})
	}

	return raw, nil
}

// isCacheable reports whether the response for this descriptor may be
// served from and stored in the cache.
func (c *Client) isCacheable(req *twitch.Request) bool {
	if c.cache == nil {
		return false
	}

	if req.Group != "" && req.Group != twitch.EndpointHelix {
		return false
	}

	return req.Method == "" || req.Method == nethttp.MethodGet
}

// requestCacheKey derives a stable cache key from the descriptor.
func requestCacheKey(req *twitch.Request) string {
	group := req.Group
	if group == "" {
		group = twitch.EndpointHelix
	}

	key := string(group) + ":" + req.Path
	if len(req.Query) > 0 {
		key += "?" + req.Query.Encode()
	}

	return key
}
