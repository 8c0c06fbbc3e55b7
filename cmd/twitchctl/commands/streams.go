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

// NewStreamsCommand creates the streams command group.
func NewStreamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams",
		Short: "List live streams",
		Long:  "Commands for listing live Twitch streams",
	}

	cmd.AddCommand(newStreamsListCommand())

	return cmd
}

func newStreamsListCommand() *cobra.Command {
	var (
		userLogins []string
		gameIDs    []string
		languages  []string
		first      int
		after      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live streams",
		Long:  "List live streams, optionally filtered by user, game, or language",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := newAPIClient()
			if err != nil {
				return err
			}

			page, err := apiClient.Streams().List(context.Background(), &twitch.StreamQuery{
				UserLogins: userLogins,
				GameIDs:    gameIDs,
				Languages:  languages,
				First:      first,
				After:      after,
			})
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(page)
			case OutputFormatYAML:
				return renderYAML(page)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("User", "Game", "Title", "Viewers", "Started At")

				for _, stream := range page.Data {
					_ = table.Append(
						stream.UserLogin,
						stream.GameName,
						stream.Title,
						strconv.Itoa(stream.ViewerCount),
						stream.StartedAt.Format("2006-01-02 15:04"),
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render streams table: %w", err)
				}

				if page.Pagination != nil && page.Pagination.Cursor != "" {
					fmt.Printf("\nNext page: --after %s\n", page.Pagination.Cursor)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringSliceVar(&userLogins, "user-login", nil, "filter by user login")
	cmd.Flags().StringSliceVar(&gameIDs, "game-id", nil, "filter by game ID")
	cmd.Flags().StringSliceVar(&languages, "language", nil, "filter by language")
	cmd.Flags().IntVar(&first, "first", 0, "page size")
	cmd.Flags().StringVar(&after, "after", "", "pagination cursor")

	return cmd
}
