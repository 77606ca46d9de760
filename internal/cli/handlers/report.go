package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/stats"
)

var weekdays = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekReport prints the day-by-project grid of the week containing day.
// byTask splits the rows by task.
func WeekReport(ctx context.Context, deps *cli.Deps, day time.Time, byTask bool) {
	r, err := deps.Services.Report.Week(ctx, deps.User, day)
	if err != nil {
		deps.Fail("Failed to build weekly report", err, "")
		return
	}

	period := cli.FormatDateRangeForDisplay(r.Start, r.End.AddDate(0, 0, -1))
	if r.Total == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No finished entries for the week of %s\n", period)
		return
	}

	var rows []weekRow
	label := "Project"
	if byTask {
		label = "Project / Task"
		for k, w := range r.ByTask {
			rows = append(rows, weekRow{ref: k.Project, task: k.Task, taskID: k.TaskID, week: w})
		}
	} else {
		for ref, w := range r.ByProject {
			rows = append(rows, weekRow{ref: ref, week: w})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ref != b.ref {
			return a.ref.Less(b.ref)
		}
		if a.task != b.task {
			return a.task < b.task
		}
		return a.taskID < b.taskID
	})
	names := projectLabels(rowRefs(rows))

	_, _ = fmt.Fprintf(deps.Stdout, "Week of %s\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 82))
	_, _ = fmt.Fprintf(deps.Stdout, "%-28s", label)
	for _, d := range weekdays {
		_, _ = fmt.Fprintf(deps.Stdout, "%6s", d)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "%8s\n", "Total")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 82))
	for _, row := range rows {
		name := names[row.ref]
		if byTask {
			name += " / " + row.task
		}
		printWeekRow(deps, name, row.week)
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 82))
	printWeekRow(deps, "Total", r.Days)

	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintf(deps.Stdout, "Average per day: %s (%d %s with entries)\n",
		cli.FormatHours(r.Statistics.AverageHoursPerDay),
		r.Statistics.DaysWithEntries,
		cli.Pluralize("day", r.Statistics.DaysWithEntries))
}

type weekRow struct {
	ref    stats.ProjectRef
	task   string
	taskID int64
	week   stats.Week
}

func rowRefs(rows []weekRow) []stats.ProjectRef {
	refs := make([]stats.ProjectRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, r.ref)
	}
	return refs
}

// projectLabels names each project bucket, adding the id to names that more
// than one project shares.
func projectLabels(refs []stats.ProjectRef) map[stats.ProjectRef]string {
	ids := make(map[string]map[int64]bool)
	for _, ref := range refs {
		if ids[ref.Name] == nil {
			ids[ref.Name] = make(map[int64]bool)
		}
		ids[ref.Name][ref.ID] = true
	}
	out := make(map[stats.ProjectRef]string, len(refs))
	for _, ref := range refs {
		if len(ids[ref.Name]) > 1 {
			out[ref] = fmt.Sprintf("%s #%d", ref.Name, ref.ID)
		} else {
			out[ref] = ref.Name
		}
	}
	return out
}

func printWeekRow(deps *cli.Deps, name string, w stats.Week) {
	if len(name) > 27 {
		name = name[:24] + "..."
	}
	_, _ = fmt.Fprintf(deps.Stdout, "%-28s", name)
	for _, h := range w {
		_, _ = fmt.Fprintf(deps.Stdout, "%6.2f", h)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "%8.2f\n", w.Total())
}

// DailyReport prints per-day, per-task hours from from to to.
func DailyReport(ctx context.Context, deps *cli.Deps, from, to time.Time) {
	days, err := deps.Services.Report.Daily(ctx, deps.User, from, to)
	if err != nil {
		deps.Fail("Failed to build daily report", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Daily hours (%s):\n", cli.FormatDateRangeForDisplay(from, to))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	var total float64
	for _, d := range days {
		total += d.Total
		_, _ = fmt.Fprintf(deps.Stdout, "%s  %s\n", d.Day.Format("Mon 2006-01-02"), cli.FormatHours(d.Total))

		tasks := make([]string, 0, len(d.Tasks))
		for name := range d.Tasks {
			tasks = append(tasks, name)
		}
		sort.Strings(tasks)
		for _, name := range tasks {
			_, _ = fmt.Fprintf(deps.Stdout, "    %-32s %s\n", name, cli.FormatHours(d.Tasks[name]))
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s\n", cli.FormatHours(total))
}
