package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up Twitch users",
		Long:  "Commands for looking up and updating Twitch user accounts",
	}

	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersUpdateCommand())

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	var (
		ids    []string
		logins []string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get users by ID or login",
		Long:  "Fetch users by ID or login name; with no filter, returns the user the token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			users, err := apiClient.Users().Get(context.Background(), &twitch.UserQuery{
				IDs:    ids,
				Logins: logins,
			})
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(users)
			case OutputFormatYAML:
				return renderYAML(users)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Login", "Display Name", "Type", "Views")

				for _, user := range users {
					_ = table.Append(user.ID, user.Login, user.DisplayName, user.BroadcasterType, strconv.Itoa(user.ViewCount))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render users table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "user IDs to look up")
	cmd.Flags().StringSliceVar(&logins, "login", nil, "login names to look up")

	return cmd
}

func newUsersUpdateCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the authenticated user",
		Long:  "Update the description of the user the access token belongs to (requires the user:edit scope)",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			user, err := apiClient.Users().Update(context.Background(), description)
			if err != nil {
				return err
			}

			if user == nil {
				fmt.Println("User updated")

				return nil
			}

			fmt.Printf("Updated description for %s\n", user.Login)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new profile description")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}
