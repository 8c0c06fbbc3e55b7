package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/twitch-client/internal/constants"
)

const secretMask = "***"

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage twitchctl configuration stored in the config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			masked := maskedConfigValues(config)

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(masked)
			case OutputFormatYAML:
				return renderYAML(masked)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")

				for _, key := range configKeys() {
					_ = table.Append(key, masked[key])
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render config table: %w", err)
				}

				return nil
			}
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			values := maskedConfigValues(loadConfig())

			value, ok := values[key]
			if !ok {
				return fmt.Errorf("%w: %q", constants.ErrUnknownConfigKey, key)
			}

			fmt.Println(value)

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := applyConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Printf("Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := applyConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Printf("Unset %s\n", args[0])

			return nil
		},
	}
}

// configKeys returns the settable configuration keys in display order.
func configKeys() []string {
	return []string{"client_id", "client_secret", "access_token", "refresh_token", "scopes", "output"}
}

// maskedConfigValues renders the config as strings with secrets masked.
func maskedConfigValues(config *Config) map[string]string {
	mask := func(value string) string {
		if value == "" {
			return ""
		}

		return secretMask
	}

	return map[string]string{
		"client_id":     config.ClientID,
		"client_secret": mask(config.ClientSecret),
		"access_token":  mask(config.AccessToken),
		"refresh_token": mask(config.RefreshToken),
		"scopes":        strings.Join(config.Scopes, ","),
		"output":        config.Output,
	}
}

// applyConfigValue sets one configuration field by key.
func applyConfigValue(config *Config, key, value string) error {
	switch key {
	case "client_id":
		config.ClientID = value
	case "client_secret":
		config.ClientSecret = value
	case "access_token":
		config.AccessToken = value
	case "refresh_token":
		config.RefreshToken = value
	case "scopes":
		if value == "" {
			config.Scopes = nil
		} else {
			config.Scopes = strings.Split(value, ",")
		}
	case "output":
		config.Output = value
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownConfigKey, key)
	}

	return nil
}
