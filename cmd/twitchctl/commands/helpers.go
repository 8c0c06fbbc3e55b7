// Package commands implements the twitchctl subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
	"github.com/fivetwenty-io/twitch-client/pkg/twitchclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Config is the persisted CLI configuration.
type Config struct {
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	AccessToken  string   `json:"access_token,omitempty"  yaml:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`
	Output       string   `json:"output,omitempty"        yaml:"output,omitempty"`
}

// loadConfig builds the CLI configuration from viper, which merges the
// config file, environment variables, and flags.
func loadConfig() *Config {
	return &Config{
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		AccessToken:  viper.GetString("access_token"),
		RefreshToken: viper.GetString("refresh_token"),
		Scopes:       viper.GetStringSlice("scopes"),
		Output:       viper.GetString("output"),
	}
}

// saveConfig persists the configuration to the active config file, or
// to ~/.twitchctl/config.yml when none is in use yet.
func saveConfig(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".twitchctl")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// newAPIClient creates a twitch.Client from the CLI configuration.
func newAPIClient() (twitch.Client, error) {
	config := loadConfig()
	if config.ClientID == "" {
		return nil, constants.ErrNoClientConfigured
	}

	return twitchclient.New(&twitch.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		Scopes:       config.Scopes,
		Debug:        viper.GetBool("verbose"),
	})
}

// renderJSON encodes v to stdout as indented JSON.
func renderJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding to JSON: %w", err)
	}

	return nil
}

// renderYAML encodes v to stdout as YAML.
func renderYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding to YAML: %w", err)
	}

	return encoder.Close()
}
