package service

import (
	"context"

	"github.com/xolan/tally/internal/storage"
)

// MaintenanceService repairs derived totals and manages backups.
type MaintenanceService struct {
	*base
}

// ReconcileResult counts the rows checked and the rows whose stored total
// had drifted from their entries.
type ReconcileResult struct {
	Tasks         int
	Projects      int
	TasksFixed    int
	ProjectsFixed int
}

// Reconcile recomputes every task total and project hour count in one
// transaction.
func (s *MaintenanceService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	var res ReconcileResult
	err := s.tx(ctx, "reconcile", func(q *storage.Queries) error {
		tasks, err := q.ListTasks(ctx, storage.TaskFilter{})
		if err != nil {
			return err
		}
		for _, t := range tasks {
			total, err := q.SumEntryDurations(ctx, t.ID)
			if err != nil {
				return err
			}
			res.Tasks++
			if total == t.TotalDurationSeconds {
				continue
			}
			if err := q.SetTaskTotal(ctx, t.ID, total); err != nil {
				return err
			}
			res.TasksFixed++
		}

		projects, err := q.ListProjects(ctx, 0)
		if err != nil {
			return err
		}
		for _, p := range projects {
			total, err := q.SumTaskTotals(ctx, p.ID)
			if err != nil {
				return err
			}
			res.Projects++
			if hours := projectHours(total); hours != p.CurrentHours {
				if err := q.SetProjectHours(ctx, p.ID, hours); err != nil {
					return err
				}
				res.ProjectsFixed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.TasksFixed > 0 || res.ProjectsFixed > 0 {
		s.log.Warn("reconciled drifted totals", "tasks", res.TasksFixed, "projects", res.ProjectsFixed)
	}
	return &res, nil
}

// Backup snapshots the database into the newest backup slot.
func (s *MaintenanceService) Backup(ctx context.Context) (string, error) {
	path, err := s.db.Backup(ctx)
	if err != nil {
		return "", wrap("backup", err)
	}
	s.log.Info("backup written", "path", path)
	return path, nil
}

// Backups lists the existing backups, newest first.
func (s *MaintenanceService) Backups() ([]storage.BackupInfo, error) {
	backups, err := storage.ListBackups(s.db.Path())
	if err != nil {
		return nil, wrap("list backups", err)
	}
	return backups, nil
}

// DatabasePath returns the open database file.
func (s *MaintenanceService) DatabasePath() string {
	return s.db.Path()
}

// Restore closes the database and replaces its file with backup n. The
// services must not be used afterwards.
func (s *MaintenanceService) Restore(n int) error {
	path := s.db.Path()
	if err := s.db.Close(); err != nil {
		return wrap("restore", err)
	}
	if err := storage.RestoreBackup(path, n); err != nil {
		return wrap("restore", err)
	}
	s.log.Info("backup restored", "path", path, "backup", n)
	return nil
}
