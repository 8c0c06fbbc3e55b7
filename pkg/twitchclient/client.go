// Package twitchclient provides the main entry point for creating
// Twitch API clients.
package twitchclient

import (
	"fmt"

	"github.com/fivetwenty-io/twitch-client/internal/client"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// New creates a new Twitch API client from the given configuration.
// The credential provider variant is chosen from the configured
// credentials; see twitch.Config for the precedence rules.
func New(config *twitch.Config) (twitch.Client, error) {
	if config == nil {
		return nil, twitch.ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, twitch.ErrClientIDRequired
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}
