package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/service"
)

// Start begins tracking time on taskID. A zero taskID books the time on a
// new untitled task.
func Start(ctx context.Context, deps *cli.Deps, taskID int64, comment string) {
	e, err := deps.Services.Entry.Start(ctx, deps.User, taskID, comment)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			deps.Fail("An entry is already open for this task", err,
				"Pause it with 'tally pause', resume it with 'tally resume' or finish it with 'tally stop'")
			return
		}
		deps.Fail("Failed to start tracking", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Started entry #%d: %s\n", e.ID, describeTask(ctx, deps, e.TaskID))
	if taskID == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "(Created untitled task #%d)\n", e.TaskID)
	}
}

// Pause pauses a running entry. A zero entryID selects the user's only open
// entry.
func Pause(ctx context.Context, deps *cli.Deps, entryID int64) {
	id, ok := resolveEntry(ctx, deps, entryID)
	if !ok {
		return
	}
	e, err := deps.Services.Entry.Pause(ctx, deps.User, id)
	if err != nil {
		deps.Fail("Failed to pause entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Paused entry #%d: %s (%s so far)\n",
		e.ID, describeTask(ctx, deps, e.TaskID), cli.FormatSeconds(e.DurationSeconds))
}

// Resume continues a paused entry.
func Resume(ctx context.Context, deps *cli.Deps, entryID int64) {
	id, ok := resolveEntry(ctx, deps, entryID)
	if !ok {
		return
	}
	e, err := deps.Services.Entry.Resume(ctx, deps.User, id)
	if err != nil {
		deps.Fail("Failed to resume entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Resumed entry #%d: %s\n", e.ID, describeTask(ctx, deps, e.TaskID))
}

// Stop finishes a running or paused entry.
func Stop(ctx context.Context, deps *cli.Deps, entryID int64) {
	id, ok := resolveEntry(ctx, deps, entryID)
	if !ok {
		return
	}
	e, err := deps.Services.Entry.Stop(ctx, deps.User, id)
	if err != nil {
		deps.Fail("Failed to stop entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Stopped entry #%d: %s (%s)\n",
		e.ID, describeTask(ctx, deps, e.TaskID), cli.FormatSeconds(e.DurationSeconds))
}

// ShowStatus lists the user's open entries and today's total.
func ShowStatus(ctx context.Context, deps *cli.Deps) {
	open, err := deps.Services.Entry.Active(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to load open entries", err, "")
		return
	}
	today, err := deps.Services.Report.Today(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to load today's total", err, "")
		return
	}

	if len(open) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No entries running")
		_, _ = fmt.Fprintln(deps.Stdout, "Start one with: tally start <task-id>")
	} else {
		now := deps.Services.Entry.Now()
		for _, e := range open {
			_, _ = fmt.Fprintf(deps.Stdout, "%s (%s)\n", cli.FormatEntry(e), cli.FormatState(&e.TimeEntry))
			_, _ = fmt.Fprintf(deps.Stdout, "  Started: %s\n", cli.FormatStartTime(e.ReportStart().In(now.Location()), now))
			_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", cli.FormatDuration(e.Elapsed(now)))
		}
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Today: %s\n", cli.FormatHours(today))
}

// resolveEntry returns entryID, or the user's only open entry when it is 0.
func resolveEntry(ctx context.Context, deps *cli.Deps, entryID int64) (int64, bool) {
	if entryID != 0 {
		return entryID, true
	}
	e, err := deps.Services.Entry.SoleActive(ctx, deps.User)
	if err != nil {
		deps.Fail("No entry id given", err, "Pass an entry id; 'tally status' lists open entries")
		return 0, false
	}
	return e.ID, true
}

// describeTask renders a task title with its project, falling back to the id.
func describeTask(ctx context.Context, deps *cli.Deps, taskID int64) string {
	task, err := deps.Services.Task.Get(ctx, taskID)
	if err != nil {
		return fmt.Sprintf("task #%d", taskID)
	}
	var project string
	if task.ProjectID != nil {
		if p, err := deps.Services.Project.Get(ctx, *task.ProjectID); err == nil {
			project = p.Name
		}
	}
	return cli.FormatTask(task.Title, project)
}
