package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
	"github.com/fivetwenty-io/twitch-client/pkg/twitchclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		accessToken  string
		refreshToken string
		scopes       []string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Configure Twitch API credentials",
		Long: `Store Twitch API credentials in the CLI configuration.

With --access-token the token is used as-is. With --client-secret an
app token is requested via the client_credentials grant. Supplying
both an access token, refresh token, and client secret enables
automatic token renewal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" {
				clientID = loadConfig().ClientID
			}

			if clientID == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Client ID: ")
				clientID, _ = reader.ReadString('\n')
				clientID = strings.TrimSpace(clientID)
			}

			if clientID == "" {
				return twitch.ErrClientIDRequired
			}

			if accessToken == "" && clientSecret == "" {
				fmt.Print("Client secret (leave empty to stay unauthenticated): ")

				byteSecret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				clientSecret = strings.TrimSpace(string(byteSecret))

				fmt.Println()
			}

			apiClient, err := twitchclient.New(&twitch.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				Scopes:       scopes,
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := context.Background()

			// Verify the credentials before persisting them.
			switch {
			case accessToken != "":
				info, err := apiClient.Tokens().Validate(ctx, accessToken)
				if err != nil {
					return fmt.Errorf("failed to validate access token: %w", err)
				}

				if info.Login != "" {
					fmt.Printf("Logged in as %s\n", info.Login)
				} else {
					fmt.Println("Access token validated")
				}
			case clientSecret != "":
				issued, err := apiClient.Tokens().RequestAppToken(ctx, clientSecret, scopes)
				if err != nil {
					return fmt.Errorf("failed to obtain app token: %w", err)
				}

				fmt.Printf("App token obtained (expires in %ds)\n", issued.ExpiresIn)
			default:
				fmt.Println("No credentials given; calls will be unauthenticated")
			}

			config := loadConfig()
			config.ClientID = clientID
			config.ClientSecret = clientSecret
			config.AccessToken = accessToken
			config.RefreshToken = refreshToken

			if len(scopes) > 0 {
				config.Scopes = scopes
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Println("Configuration saved")

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "application client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "application client secret")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "existing user access token")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token for automatic renewal")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "token scopes to request")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Remove stored credentials from the CLI configuration, optionally revoking the access token first",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if revoke && config.AccessToken != "" {
				apiClient, err := newAPIClient()
				if err != nil {
					return err
				}

				err = apiClient.Tokens().Revoke(context.Background(), config.AccessToken)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to revoke token: %v\n", err)
				} else {
					fmt.Println("Token revoked")
				}
			}

			config.ClientSecret = ""
			config.AccessToken = ""
			config.RefreshToken = ""

			err := saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "revoke the access token before removing it")

	return cmd
}
