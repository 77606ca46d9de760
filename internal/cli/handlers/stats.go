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

// ShowProgress prints the completion ratio per project and overall.
func ShowProgress(ctx context.Context, deps *cli.Deps) {
	r, err := deps.Services.Report.Progress(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to compute progress", err, "")
		return
	}
	if r.Tasks == 0 && len(r.PerProject) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No tasks found")
		_, _ = fmt.Fprintln(deps.Stdout, "Add one with: tally task add <title> [--project <id>]")
		return
	}

	refs := make([]stats.ProjectRef, 0, len(r.PerProject))
	for id, p := range r.PerProject {
		refs = append(refs, stats.ProjectRef{ID: id, Name: p.Name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	names := projectLabels(refs)

	_, _ = fmt.Fprintln(deps.Stdout, "Progress by project:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	for _, ref := range refs {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-36s %6s\n", names[ref], cli.FormatPercent(r.PerProject[ref.ID].Ratio))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "  %-36s %6s\n", "Overall (active projects)", cli.FormatPercent(r.Overall))
}

// ShowMonth lists the user's tasks due in, or created in, year/month.
func ShowMonth(ctx context.Context, deps *cli.Deps, year int, month time.Month) {
	tasks, err := deps.Services.Report.Month(ctx, deps.User, year, month)
	if err != nil {
		deps.Fail("Failed to load tasks", err, "")
		return
	}
	period := fmt.Sprintf("%s %d", month, year)
	if len(tasks) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No tasks for %s\n", period)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Tasks for %s:\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	for _, t := range tasks {
		printTaskInfo(deps, t)
	}
}

func printTaskInfo(deps *cli.Deps, t stats.TaskInfo) {
	due := ""
	if t.DueDate != nil {
		due = "  due " + t.DueDate.Format(time.DateOnly)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "#%-4d %-12s %s%s\n", t.ID, t.Status, cli.FormatTask(t.Title, t.Project), due)
}
