package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for tally.

Views available:
  - Timer: Running and paused entries, with start, pause, resume and stop
  - Week: Hours per day and project for any past week
  - Notifications: Progress, goal and deviation notifications
  - Config: Effective configuration and theme selection

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-4: Jump to specific view
  - j/k or arrows: Navigate within lists
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

func runTUI(cmd *cobra.Command) {
	withServices(cmd, func(_ context.Context, d *cli.Deps) {
		if err := tui.Run(d.Services, d.User); err != nil {
			d.Fail("Failed to run the terminal UI", err, "")
		}
	})
}

// CheckTUIFlag runs the TUI when --tui is set and reports whether it did.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI(cmd)
		return true
	}
	return false
}
