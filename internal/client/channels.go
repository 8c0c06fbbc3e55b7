package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// ChannelsClient implements twitch.ChannelsClient against the legacy
// Kraken (v5) API.
type ChannelsClient struct {
	client *Client
}

// NewChannelsClient creates a new channels client.
func NewChannelsClient(client *Client) *ChannelsClient {
	return &ChannelsClient{client: client}
}

// Get implements twitch.ChannelsClient.Get.
func (c *ChannelsClient) Get(ctx context.Context, channelID string) (*twitch.Channel, error) {
	raw, err := c.client.Call(ctx, &twitch.Request{
		Group: twitch.EndpointKraken,
		Path:  "channels/" + channelID,
	})
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}

	var channel twitch.Channel

	err = json.Unmarshal(raw, &channel)
	if err != nil {
		return nil, fmt.Errorf("parsing channel response: %w", err)
	}

	return &channel, nil
}

// Update implements twitch.ChannelsClient.Update.
func (c *ChannelsClient) Update(ctx context.Context, channelID string, update *twitch.ChannelUpdate) (*twitch.Channel, error) {
	raw, err := c.client.Call(ctx, &twitch.Request{
		Group:  twitch.EndpointKraken,
		Path:   "channels/" + channelID,
		Method: http.MethodPut,
		Body:   map[string]*twitch.ChannelUpdate{"channel": update},
		Scopes: []string{"channel_editor"},
	})
	if err != nil {
		return nil, fmt.Errorf("updating channel: %w", err)
	}

	var channel twitch.Channel

	err = json.Unmarshal(raw, &channel)
	if err != nil {
		return nil, fmt.Errorf("parsing channel response: %w", err)
	}

	return &channel, nil
}
