package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/xolan/tally/internal/cli"
)

// Doctor recomputes derived totals and reports database health.
func Doctor(ctx context.Context, deps *cli.Deps) {
	res, err := deps.Services.Maintenance.Reconcile(ctx)
	if err != nil {
		deps.Fail("Failed to check database", err, "Restore a backup with 'tally backup restore [n]'")
		return
	}
	backups, err := deps.Services.Maintenance.Backups()
	if err != nil {
		deps.Fail("Failed to list backups", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Database: %s\n", deps.Services.Maintenance.DatabasePath())
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Tasks checked:     %d\n", res.Tasks)
	_, _ = fmt.Fprintf(deps.Stdout, "Projects checked:  %d\n", res.Projects)
	_, _ = fmt.Fprintf(deps.Stdout, "Backups:           %d\n", len(backups))
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if res.TasksFixed == 0 && res.ProjectsFixed == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Totals are consistent")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Status: ⚠ Repaired %d task %s and %d project %s\n",
		res.TasksFixed, cli.Pluralize("total", res.TasksFixed),
		res.ProjectsFixed, cli.Pluralize("total", res.ProjectsFixed))
}

// Backup writes a new database snapshot.
func Backup(ctx context.Context, deps *cli.Deps) {
	path, err := deps.Services.Maintenance.Backup(ctx)
	if err != nil {
		deps.Fail("Failed to create backup", err, "Check that the database directory is writable")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Backup written: %s\n", path)
}

// ListBackups prints the available backups, newest first.
func ListBackups(deps *cli.Deps) {
	backups, err := deps.Services.Maintenance.Backups()
	if err != nil {
		deps.Fail("Failed to list backups", err, "")
		return
	}
	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups found")
		_, _ = fmt.Fprintln(deps.Stdout, "Create one with: tally backup")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, b := range backups {
		_, _ = fmt.Fprintf(deps.Stdout, "  [%d] %s  %s (%d bytes)\n",
			b.Number, b.ModTime.Format("2006-01-02 15:04:05"), b.Path, b.Size)
	}
}

// RestoreBackup replaces the database with backup n after confirmation
// unless skipConfirm is set. The services are closed afterwards.
func RestoreBackup(deps *cli.Deps, n int, skipConfirm bool) {
	backups, err := deps.Services.Maintenance.Backups()
	if err != nil {
		deps.Fail("Failed to list backups", err, "")
		return
	}
	var found bool
	for _, b := range backups {
		found = found || b.Number == n
	}
	if !found {
		deps.Fail(fmt.Sprintf("Backup %d does not exist", n), nil, "List backups with 'tally backup list'")
		return
	}

	if !skipConfirm {
		_, _ = fmt.Fprintf(deps.Stdout, "Replace %s with backup %d? [y/N]: ", deps.Services.Maintenance.DatabasePath(), n)
		if !readYes(deps) {
			_, _ = fmt.Fprintln(deps.Stdout, "Restore cancelled")
			return
		}
	}
	if err := deps.Services.Maintenance.Restore(n); err != nil {
		deps.Fail("Failed to restore backup", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", n)
}
