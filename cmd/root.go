package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Track working time on tasks and projects",
	Long: `tally tracks working time on tasks grouped into projects.

Entries are started, paused, resumed and stopped, or logged after the fact.
Task and project totals follow every change, and weekly checks compare the
booked hours with each project's plan.

Usage:
  tally                                        Show open entries and today's total
  tally start [task-id]                        Start tracking (no id: new untitled task)
  tally pause|resume|stop [entry-id]           Control an entry (no id: the only open one)
  tally log <task-id> --duration 1h30m         Log finished work
  tally list [--from DATE --to DATE]           List entries
  tally report [--week DATE] [--by-task]       Weekly hours per project
  tally project add <name> --limit 40          Create a project
  tally task add "title @project"              Create a task
  tally check                                  Run the weekly progress checks
  tally notifications                          Show notifications

Every command acts as the user given by --user, or user_id from the config file.

Duration format: Xh, Ym, Zs or combined (e.g. 1h30m), at most 24h.
Date format: YYYY-MM-DD or DD/MM/YYYY; timestamps add HH:MM.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		withServices(cmd, handlers.ShowStatus)
	},
}

func init() {
	rootCmd.PersistentFlags().Int64("user", 0, "Act as this user id (default: user_id from the config file)")
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"tally version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// run adapts a handler without extra arguments to a cobra Run function.
func run(fn func(ctx context.Context, d *cli.Deps)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		withServices(cmd, fn)
	}
}
