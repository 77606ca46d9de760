package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start a running entry on a task.

Without a task id a new "Untitled Task" is created to hold the time; it is
removed again when its last entry is deleted.

A task can have only one open (running or paused) entry per user.

Examples:
  tally start 12                       Start tracking task #12
  tally start 12 --comment "review"    Start with a comment
  tally start                          Track on a new untitled task`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		comment, _ := cmd.Flags().GetString("comment")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			taskID, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			handlers.Start(ctx, d, taskID, comment)
		})
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause [entry-id]",
	Short: "Pause a running entry",
	Long: `Pause a running entry. The time since it was last started is added to
its duration. Without an id the only open entry is paused.`,
	Args: cobra.MaximumNArgs(1),
	Run:  entryAction(handlers.Pause),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [entry-id]",
	Short: "Resume a paused entry",
	Long:  `Resume a paused entry. Without an id the only open entry is resumed.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   entryAction(handlers.Resume),
}

var stopCmd = &cobra.Command{
	Use:   "stop [entry-id]",
	Short: "Stop a running or paused entry",
	Long: `Stop an entry for good. A running entry adds the time since it was last
started; a paused entry keeps its duration. Without an id the only open
entry is stopped.`,
	Args: cobra.MaximumNArgs(1),
	Run:  entryAction(handlers.Stop),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show open entries and today's total",
	Args:  cobra.NoArgs,
	Run:   run(handlers.ShowStatus),
}

func init() {
	rootCmd.AddCommand(startCmd, pauseCmd, resumeCmd, stopCmd, statusCmd)
	startCmd.Flags().StringP("comment", "c", "", "Comment for the entry")
}

func entryAction(fn func(ctx context.Context, d *cli.Deps, entryID int64)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "entry")
			if !ok {
				return
			}
			fn(ctx, d, id)
		})
	}
}
