package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// UsersClient implements twitch.UsersClient.
type UsersClient struct {
	client *Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(client *Client) *UsersClient {
	return &UsersClient{client: client}
}

// Get implements twitch.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, params *twitch.UserQuery) ([]twitch.User, error) {
	query := url.Values{}

	if params != nil {
		for _, id := range params.IDs {
			query.Add("id", id)
		}

		for _, login := range params.Logins {
			query.Add("login", login)
		}
	}

	raw, err := c.client.Call(ctx, &twitch.Request{
		Group: twitch.EndpointHelix,
		Path:  "users",
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting users: %w", err)
	}

	var envelope twitch.DataResponse[twitch.User]

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing users response: %w", err)
	}

	return envelope.Data, nil
}

// Update implements twitch.UsersClient.Update. It updates the
// description of the user the token belongs to.
func (c *UsersClient) Update(ctx context.Context, description string) (*twitch.User, error) {
	raw, err := c.client.Call(ctx, &twitch.Request{
		Group:  twitch.EndpointHelix,
		Path:   "users",
		Method: http.MethodPut,
		Query:  url.Values{"description": []string{description}},
		Scopes: []string{"user:edit"},
	})
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	var envelope twitch.DataResponse[twitch.User]

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	if len(envelope.Data) == 0 {
		return nil, nil
	}

	return &envelope.Data[0], nil
}
