package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// GamesClient implements twitch.GamesClient.
type GamesClient struct {
	client *Client
}

// NewGamesClient creates a new games client.
func NewGamesClient(client *Client) *GamesClient {
	return &GamesClient{client: client}
}

// Get implements twitch.GamesClient.Get.
func (c *GamesClient) Get(ctx context.Context, params *twitch.GameQuery) ([]twitch.Game, error) {
	query := url.Values{}

	if params != nil {
		for _, id := range params.IDs {
			query.Add("id", id)
		}

		for _, name := range params.Names {
			query.Add("name", name)
		}
	}

	raw, err := c.client.Call(ctx, &twitch.Request{
		Group: twitch.EndpointHelix,
		Path:  "games",
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting games: %w", err)
	}

	var envelope twitch.DataResponse[twitch.Game]

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing games response: %w", err)
	}

	return envelope.Data, nil
}

// Top implements twitch.GamesClient.Top.
func (c *GamesClient) Top(ctx context.Context, first int, after string) (*twitch.DataResponse[twitch.Game], error) {
	query := url.Values{}

	if first > 0 {
		query.Set("first", strconv.Itoa(first))
	}

	if after != "" {
		query.Set("after", after)
	}

	raw, err := c.client.Call(ctx, &twitch.Request{
		Group: twitch.EndpointHelix,
		Path:  "games/top",
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting top games: %w", err)
	}

	var envelope twitch.DataResponse[twitch.Game]

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing top games response: %w", err)
	}

	return &envelope, nil
}
