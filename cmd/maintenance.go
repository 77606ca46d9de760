package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database and repair derived totals",
	Long: `Recompute every task total from its entries and every project's hours
from its tasks, repairing any that drifted, and report the backups on disk.`,
	Args: cobra.NoArgs,
	Run:  run(handlers.Doctor),
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the database",
	Long: `Write a snapshot of the database. Up to three backups are kept; the newest
is backup 1.

Examples:
  tally backup                Write a new backup
  tally backup list           List backups
  tally backup restore        Restore the most recent backup
  tally backup restore 2      Restore backup #2`,
	Args: cobra.NoArgs,
	Run:  run(handlers.Backup),
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(_ context.Context, d *cli.Deps) {
			handlers.ListBackups(d)
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore the database from a backup",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		withServices(cmd, func(_ context.Context, d *cli.Deps) {
			n := 1
			if len(args) > 0 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil {
					d.Fail("Invalid backup number '"+args[0]+"'", err, "List backups with 'tally backup list'")
					return
				}
			}
			handlers.RestoreBackup(d, n, yes)
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd, backupCmd)
	backupCmd.AddCommand(backupListCmd, backupRestoreCmd)
	backupRestoreCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
