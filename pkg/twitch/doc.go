// Package twitch provides the public types and interfaces for the
// Twitch API client: the Client interface, request descriptors, typed
// resources, error types, and the response cache.
//
// Use github.com/fivetwenty-io/twitch-client/pkg/twitchclient to
// construct a client.
package twitch
