package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the weekly progress checks",
	Long: `Compare the hours booked on your projects with their plan and record a
notification for each project at most once per calendar week. The plan
spreads a project's time limit evenly from its creation to its due date.
Weekly goals reached are notified as well.

With --expected, compare an expected completion ratio of your tasks with
the actual share of done tasks instead.

Examples:
  tally check                            All active projects with a due date
  tally check --project 2                One project
  tally check --expected 0.5             Expected half of the tasks done
  tally check --expected 0.5 --threshold 0.2`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		projectID, _ := cmd.Flags().GetInt64("project")
		expected, _ := cmd.Flags().GetFloat64("expected")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		deviation := cmd.Flags().Changed("expected")
		thresholdSet := cmd.Flags().Changed("threshold")

		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			if !deviation {
				handlers.CheckProgress(ctx, d, projectID)
				return
			}
			if !thresholdSet {
				threshold = d.Services.Notify.Threshold()
			}
			handlers.CheckDeviation(ctx, d, expected, threshold)
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notes"},
	Short:   "List notifications",
	Long: `List your notifications, newest first. Unread ones are marked with '*'.

Examples:
  tally notifications                 All notifications
  tally notifications --unread        Unread only
  tally notifications read <id>       Mark one as read`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		unread, _ := cmd.Flags().GetBool("unread")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			handlers.ListNotifications(ctx, d, unread)
		})
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			handlers.MarkRead(ctx, d, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, notificationsCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)

	checkCmd.Flags().Int64("project", 0, "Check only this project")
	checkCmd.Flags().Float64("expected", 0, "Expected completion ratio (0-1)")
	checkCmd.Flags().Float64("threshold", 0, "Allowed deviation ratio (default from config)")

	notificationsCmd.Flags().Bool("unread", false, "Only unread notifications")
}
