package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/timeutil"
)

var logCmd = &cobra.Command{
	Use:   "log <task-id>",
	Short: "Log finished work on a task",
	Long: `Create a stopped entry for work done earlier.

Give either a duration or both start and end:
  --duration only          ends now, starts duration earlier
  --start and --duration   ends at start + duration
  --end and --duration     starts at end - duration
  --start and --end        the duration is the interval
All three may be given when the duration fits between start and end.

Examples:
  tally log 12 --duration 1h30m
  tally log 12 --start "2025-03-10 09:00" --end "2025-03-10 11:15"
  tally log 12 --start 09:00 --duration 45m --comment "standup"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			taskID, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			m := service.ManualEntry{TaskID: taskID}
			m.Comment, _ = cmd.Flags().GetString("comment")
			if m.Start, m.End, m.Duration, ok = timingFlags(cmd, d); !ok {
				return
			}
			handlers.LogEntry(ctx, d, m)
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Edit an existing entry",
	Long: `Change an entry's comment, task or timing.

Timing flags (--start, --end, --duration) only apply to stopped entries.
Changing start or end without --duration sets the duration to the new
interval. Moving an entry to another task updates both tasks' totals.

Examples:
  tally edit 7 --comment "code review"
  tally edit 7 --duration 2h
  tally edit 7 --task 3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			entryID, ok := idArg(d, args, 0, "entry")
			if !ok {
				return
			}
			var u service.EntryUpdate
			if u.StartTime, u.EndTime, u.Duration, ok = timingFlags(cmd, d); !ok {
				return
			}
			if cmd.Flags().Changed("comment") {
				comment, _ := cmd.Flags().GetString("comment")
				u.Comment = &comment
			}
			if cmd.Flags().Changed("task") {
				taskID, _ := cmd.Flags().GetInt64("task")
				u.TaskID = &taskID
			}
			handlers.EditEntry(ctx, d, entryID, u)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry (with confirmation)",
	Long: `Delete an entry. Task and project totals are updated, and an untitled
task created by tracking is removed with its last entry.

Use --yes to skip the confirmation prompt.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			entryID, ok := idArg(d, args, 0, "entry")
			if !ok {
				return
			}
			handlers.DeleteEntry(ctx, d, entryID, yes)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Long: `List your entries by first start. Without flags, today's entries are shown.

Examples:
  tally list                            Today's entries
  tally list --last 7                   The last 7 days
  tally list --from 2025-03-01          From March 1st until today
  tally list --project 2 --last 30      One project over 30 days`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := rangeFlags(cmd)
		taskID, _ := cmd.Flags().GetInt64("task")
		projectID, _ := cmd.Flags().GetInt64("project")

		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			period := ""
			if flags.IsZero() {
				flags.Last, period = 1, "today"
			}
			start, end, err := parserFor(d).Range(flags)
			if err != nil {
				d.Fail("Invalid date range", err, "")
				return
			}
			if period == "" {
				period = "all time until " + end.Format("Jan 2, 2006")
				if !start.IsZero() {
					period = cli.FormatDateRangeForDisplay(start, end)
				}
			}
			period = cli.BuildPeriodWithFilters(period, idFilter("task", taskID), idFilter("project", projectID))
			handlers.ListEntries(ctx, d, service.EntryFilter{TaskID: taskID, ProjectID: projectID, From: start, To: end}, period)
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd, editCmd, deleteCmd, listCmd)

	for _, c := range []*cobra.Command{logCmd, editCmd} {
		c.Flags().String("start", "", "Start timestamp (YYYY-MM-DD HH:MM, HH:MM for today)")
		c.Flags().String("end", "", "End timestamp")
		c.Flags().String("duration", "", "Duration (e.g. 1h30m, 45m)")
		c.Flags().StringP("comment", "c", "", "Comment for the entry")
	}
	editCmd.Flags().Int64("task", 0, "Move the entry to this task")

	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	listCmd.Flags().String("from", "", "First day (YYYY-MM-DD or DD/MM/YYYY)")
	listCmd.Flags().String("to", "", "Last day (default today)")
	listCmd.Flags().Int("last", 0, "Show the last N days including today")
	listCmd.Flags().Int64("task", 0, "Only this task")
	listCmd.Flags().Int64("project", 0, "Only this project")
}

// timingFlags parses --start, --end and --duration when they were given.
func timingFlags(cmd *cobra.Command, d *cli.Deps) (start, end *time.Time, duration *time.Duration, ok bool) {
	p := parserFor(d)
	for _, f := range []struct {
		name string
		dst  **time.Time
	}{{"start", &start}, {"end", &end}} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		raw, _ := cmd.Flags().GetString(f.name)
		t, err := p.Timestamp(raw)
		if err != nil {
			d.Fail(fmt.Sprintf("Invalid --%s", f.name), err, "")
			return nil, nil, nil, false
		}
		*f.dst = &t
	}
	if cmd.Flags().Changed("duration") {
		raw, _ := cmd.Flags().GetString("duration")
		dur, err := timeutil.ParseDuration(raw)
		if err != nil {
			d.Fail("Invalid --duration", err, "Use a format like 2h, 30m, 1h30m or 90s")
			return nil, nil, nil, false
		}
		duration = &dur
	}
	return start, end, duration, true
}

func idFilter(what string, id int64) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", what, id)
}

func rangeFlags(cmd *cobra.Command) timeutil.RangeFlags {
	var f timeutil.RangeFlags
	f.From, _ = cmd.Flags().GetString("from")
	f.To, _ = cmd.Flags().GetString("to")
	f.Last, _ = cmd.Flags().GetInt("last")
	return f
}
