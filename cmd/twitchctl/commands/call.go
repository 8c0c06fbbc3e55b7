package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/twitch-client/internal/client"
)

// NewCallCommand creates the call command for raw operation dispatch.
func NewCallCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "call <operation> [key=value ...]",
		Short: "Call a registered API operation by name",
		Long: `Dispatch a registered API operation by name with key=value
parameters. Path parameters fill {placeholder} segments; the rest
become query parameters. Comma-separated values serialize as repeated
query parameters.

Examples:
  twitchctl call users.get login=alice,bob
  twitchctl call channels.get channel_id=44322889
  twitchctl call streams.list game_id=33214 first=5`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range client.Operations() {
					fmt.Println(name)
				}

				return nil
			}

			if len(args) == 0 {
				return cmd.Help()
			}

			params, err := parseCallParams(args[1:])
			if err != nil {
				return err
			}

			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			raw, err := apiClient.CallOperation(context.Background(), args[0], params)
			if err != nil {
				return err
			}

			if raw == nil {
				return nil
			}

			if viper.GetString("output") == OutputFormatYAML {
				var decoded interface{}

				err = json.Unmarshal(raw, &decoded)
				if err != nil {
					return fmt.Errorf("decoding response: %w", err)
				}

				return renderYAML(decoded)
			}

			var pretty interface{}

			err = json.Unmarshal(raw, &pretty)
			if err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(pretty)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list registered operations")

	return cmd
}

// parseCallParams parses key=value argument pairs.
func parseCallParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}

		params[key] = value
	}

	return params, nil
}
