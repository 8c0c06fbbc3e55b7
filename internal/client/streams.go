package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// StreamsClient implements twitch.StreamsClient.
type StreamsClient struct {
	client *Client
}

// NewStreamsClient creates a new streams client.
func NewStreamsClient(client *Client) *StreamsClient {
	return &StreamsClient{client: client}
}

// List implements twitch.StreamsClient.List.
func (c *StreamsClient) List(ctx context.Context, params *twitch.StreamQuery) (*twitch.DataResponse[twitch.Stream], error) {
	query := url.Values{}

	if params != nil {
		for _, id := range params.UserIDs {
			query.Add("user_id", id)
		}

		for _, login := range params.UserLogins {
			query.Add("user_login", login)
		}

		for _, id := range params.GameIDs {
			query.Add("game_id", id)
		}

		for _, lang := range params.Languages {
			query.Add("language", lang)
		}

		if params.First > 0 {
			query.Set("first", strconv.Itoa(params.First))
		}

		if params.After != "" {
			query.Set("after", params.After)
		}
	}

	raw, err := c.client.Call(ctx, &twitch.Request{
		Group: twitch.EndpointHelix,
		Path:  "streams",
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing streams: %w", err)
	}

	var envelope twitch.DataResponse[twitch.Stream]

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing streams response: %w", err)
	}

	return &envelope, nil
}
