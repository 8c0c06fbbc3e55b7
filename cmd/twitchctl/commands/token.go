package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/twitch-client/internal/auth"
	"github.com/fivetwenty-io/twitch-client/internal/constants"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage authentication tokens",
		Long:  "Commands for inspecting, validating, refreshing, and revoking access tokens",
	}

	cmd.AddCommand(newTokenStatusCommand())
	cmd.AddCommand(newTokenValidateCommand())
	cmd.AddCommand(newTokenRefreshCommand())
	cmd.AddCommand(newTokenRevokeCommand())

	return cmd
}

func newTokenStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show token status and expiration",
		Long:  "Display information about the stored access token including expiration time",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			tokenStatus := buildTokenStatusData(config)

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(tokenStatus)
			case OutputFormatYAML:
				return renderYAML(tokenStatus)
			default:
				return displayTokenStatusTable(tokenStatus)
			}
		},
	}
}

func newTokenValidateCommand() *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a token against the introspection endpoint",
		Long:  "Introspect the stored access token (or an explicit one) and display its metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenFlag
			if token == "" {
				token = loadConfig().AccessToken
			}

			if token == "" {
				return constants.ErrNoTokenConfigured
			}

			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			info, err := apiClient.Tokens().Validate(context.Background(), token)
			if err != nil {
				return fmt.Errorf("validating token: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(info)
			case OutputFormatYAML:
				return renderYAML(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Client ID", info.ClientID)
				_ = table.Append("Login", info.Login)
				_ = table.Append("User ID", info.UserID)
				_ = table.Append("Scopes", strings.Join(info.Scopes, ", "))
				_ = table.Append("Expires In", (time.Duration(info.ExpiresIn) * time.Second).String())

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render token info table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "validate an explicit token instead of the stored one")

	return cmd
}

func newTokenRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Manually refresh the access token",
		Long:  "Force a refresh of the stored access token using the refresh_token grant",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.RefreshToken == "" {
				return constants.ErrNoRefreshToken
			}

			provider := auth.NewRefreshingProvider(
				config.ClientID,
				config.ClientSecret,
				config.AccessToken,
				config.RefreshToken,
				viper.GetString("auth_url"),
			)

			token, err := provider.Refresh(context.Background())
			if err != nil {
				return fmt.Errorf("failed to refresh token: %w", err)
			}

			if token == nil {
				return constants.ErrFailedRetrieveToken
			}

			config.AccessToken = token.AccessToken
			if token.RefreshToken != "" {
				config.RefreshToken = token.RefreshToken
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			fmt.Println("Token refreshed")

			if !token.ExpiresAt.IsZero() {
				fmt.Printf("Expires at: %s\n", token.ExpiresAt.Format(time.RFC3339))
			}

			return nil
		},
	}
}

func newTokenRevokeCommand() *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a token",
		Long:  "Revoke the stored access token (or an explicit one) so it can no longer be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenFlag
			if token == "" {
				token = loadConfig().AccessToken
			}

			if token == "" {
				return constants.ErrNoTokenConfigured
			}

			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			err = apiClient.Tokens().Revoke(context.Background(), token)
			if err != nil {
				return fmt.Errorf("revoking token: %w", err)
			}

			fmt.Println("Token revoked")

			// Drop the stored token when it is the one just revoked.
			config := loadConfig()
			if tokenFlag == "" || tokenFlag == config.AccessToken {
				config.AccessToken = ""

				return saveConfig(config)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "revoke an explicit token instead of the stored one")

	return cmd
}

func buildTokenStatusData(config *Config) map[string]interface{} {
	tokenStatus := map[string]interface{}{
		"client_id": config.ClientID,
	}

	if config.AccessToken == "" {
		tokenStatus["status"] = "No token"
		tokenStatus["authenticated"] = false

		return tokenStatus
	}

	tokenStatus["status"] = "Token present"
	tokenStatus["authenticated"] = true
	tokenStatus["refresh_token_available"] = config.RefreshToken != ""

	expiresAt, err := decodeJWTExpiration(config.AccessToken)
	if err != nil {
		tokenStatus["expiry_status"] = "Unknown expiration"

		return tokenStatus
	}

	addExpirationInfo(tokenStatus, expiresAt)

	return tokenStatus
}

// addExpirationInfo adds expiration status and timing information.
func addExpirationInfo(tokenStatus map[string]interface{}, expiresAt *time.Time) {
	tokenStatus["expires_at"] = expiresAt.Format(time.RFC3339)

	timeUntilExpiry := time.Until(*expiresAt)

	switch {
	case timeUntilExpiry <= 0:
		tokenStatus["expiry_status"] = "Expired"
	case timeUntilExpiry <= 5*time.Minute:
		tokenStatus["expiry_status"] = "Expires soon"
	default:
		tokenStatus["expiry_status"] = "Valid"
	}

	tokenStatus["time_until_expiry"] = timeUntilExpiry.String()
}

// decodeJWTExpiration extracts the expiration time from a JWT access
// token without verifying its signature. OAuth tokens that are not
// JWTs yield ErrInvalidJWTFormat.
func decodeJWTExpiration(token string) (*time.Time, error) {
	if len(strings.Split(token, ".")) != constants.TokenPartsCount {
		return nil, constants.ErrInvalidJWTFormat
	}

	claims := jwt.RegisteredClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT claims: %w", err)
	}

	if claims.ExpiresAt == nil {
		return nil, constants.ErrNoExpirationClaim
	}

	return &claims.ExpiresAt.Time, nil
}

func displayTokenStatusTable(tokenStatus map[string]interface{}) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Client ID", fmt.Sprintf("%v", tokenStatus["client_id"]))
	_ = table.Append("Authenticated", fmt.Sprintf("%v", tokenStatus["authenticated"]))
	_ = table.Append("Status", fmt.Sprintf("%v", tokenStatus["status"]))

	for _, key := range []string{"expiry_status", "expires_at", "time_until_expiry", "refresh_token_available"} {
		if value, ok := tokenStatus[key]; ok {
			label := strings.ReplaceAll(key, "_", " ")
			_ = table.Append(strings.ToUpper(label[:1])+label[1:], fmt.Sprintf("%v", value))
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render token status table: %w", err)
	}

	return nil
}
