package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show hours per day grouped by project or task",
	Long: `Show booked hours per weekday for the week (Monday to Sunday) containing
a date, grouped by project. Only stopped entries count.

Use --daily for a per-day listing by task over a date range.

Examples:
  tally report                          This week by project
  tally report --week 2025-03-03        The week containing March 3rd
  tally report --by-task                This week by project and task
  tally report --daily --last 7         Daily totals for the last 7 days
  tally report --daily --from 2025-03-01 --to 2025-03-31`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		week, _ := cmd.Flags().GetString("week")
		byTask, _ := cmd.Flags().GetBool("by-task")
		daily, _ := cmd.Flags().GetBool("daily")
		flags := rangeFlags(cmd)

		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			p := parserFor(d)
			if daily {
				if flags.IsZero() {
					flags.Last = 7
				}
				start, end, err := p.Range(flags)
				if err != nil {
					d.Fail("Invalid date range", err, "")
					return
				}
				if start.IsZero() {
					d.Fail("A daily report needs a start", nil, "Pass --from or --last")
					return
				}
				handlers.DailyReport(ctx, d, start, end)
				return
			}

			day := d.Services.Entry.Now()
			if week != "" {
				var err error
				if day, err = p.Date(week); err != nil {
					d.Fail("Invalid --week date", err, "")
					return
				}
			}
			handlers.WeekReport(ctx, d, day, byTask)
		})
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show task completion per project",
	Long: `Show the share of done tasks per project and across all active projects.
Tasks you own or are assigned to are counted.`,
	Args: cobra.NoArgs,
	Run:  run(handlers.ShowProgress),
}

func init() {
	rootCmd.AddCommand(reportCmd, progressCmd)

	reportCmd.Flags().String("week", "", "Any date in the week to report (default today)")
	reportCmd.Flags().Bool("by-task", false, "Split rows by task")
	reportCmd.Flags().Bool("daily", false, "Per-day totals by task over a range")
	reportCmd.Flags().String("from", "", "First day for --daily")
	reportCmd.Flags().String("to", "", "Last day for --daily (default today)")
	reportCmd.Flags().Int("last", 0, "Last N days for --daily (default 7)")
}
