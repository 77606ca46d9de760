package handlers

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/service"
)

// LogEntry records finished work.
func LogEntry(ctx context.Context, deps *cli.Deps, m service.ManualEntry) {
	e, err := deps.Services.Entry.CreateManual(ctx, deps.User, m)
	if err != nil {
		deps.Fail("Failed to log entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Logged entry #%d: %s (%s)\n",
		e.ID, describeTask(ctx, deps, e.TaskID), cli.FormatSeconds(e.DurationSeconds))
}

// EditEntry applies u to an entry.
func EditEntry(ctx context.Context, deps *cli.Deps, entryID int64, u service.EntryUpdate) {
	e, err := deps.Services.Entry.Update(ctx, deps.User, entryID, u)
	if err != nil {
		deps.Fail("Failed to update entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Updated entry #%d: %s (%s)\n",
		e.ID, describeTask(ctx, deps, e.TaskID), cli.FormatSeconds(e.DurationSeconds))
}

// DeleteEntry removes an entry after confirmation unless skipConfirm is set.
func DeleteEntry(ctx context.Context, deps *cli.Deps, entryID int64, skipConfirm bool) {
	e, err := deps.Services.Entry.Get(ctx, deps.User, entryID)
	if err != nil {
		deps.Fail("Failed to load entry", err, "")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Entry to delete:")
	_, _ = fmt.Fprintf(deps.Stdout, "  #%d  %s  %s (%s, %s)\n",
		e.ID,
		e.ReportStart().In(deps.Services.Entry.Now().Location()).Format("2006-01-02 15:04"),
		describeTask(ctx, deps, e.TaskID),
		cli.FormatSeconds(e.DurationSeconds),
		cli.FormatState(e))

	if !skipConfirm && !promptConfirmation(deps) {
		_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
		return
	}

	res, err := deps.Services.Entry.Delete(ctx, deps.User, entryID)
	if err != nil {
		deps.Fail("Failed to delete entry", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Deleted entry #%d (%s)\n", res.Entry.ID, cli.FormatSeconds(res.Entry.DurationSeconds))
	if res.TaskDeleted {
		_, _ = fmt.Fprintf(deps.Stdout, "Removed untitled task #%d\n", res.Entry.TaskID)
	}
}

// promptConfirmation asks the user to confirm deletion
// Returns true if user confirms with 'y' or 'Y', false otherwise
func promptConfirmation(deps *cli.Deps) bool {
	_, _ = fmt.Fprint(deps.Stdout, "Delete this entry? [y/N]: ")
	return readYes(deps)
}

func readYes(deps *cli.Deps) bool {
	scanner := bufio.NewScanner(deps.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}

// ListEntries prints the user's entries matching f. period describes the
// window for the header.
func ListEntries(ctx context.Context, deps *cli.Deps, f service.EntryFilter, period string) {
	entries, err := deps.Services.Entry.List(ctx, deps.User, f)
	if err != nil {
		deps.Fail("Failed to list entries", err, "")
		return
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No entries found for %s\n", period)
		return
	}

	now := deps.Services.Entry.Now()
	layout := "15:04"
	if cli.SpansMultipleDays(entries) {
		layout = "Mon 01/02 15:04"
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Entries for %s:\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))

	var total time.Duration
	for _, e := range entries {
		elapsed := e.Elapsed(now)
		total += elapsed
		state := ""
		if !e.IsTerminal() {
			state = "  [" + cli.FormatState(&e.TimeEntry) + "]"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%s  %s (%s)%s\n",
			e.ReportStart().In(now.Location()).Format(layout),
			cli.FormatEntry(e),
			cli.FormatDuration(elapsed),
			state)
		if e.Comment != "" {
			_, _ = fmt.Fprintf(deps.Stdout, "    %s\n", e.Comment)
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s (%d %s)\n",
		cli.FormatDuration(total), len(entries), cli.Pluralize("entry", len(entries)))
}
