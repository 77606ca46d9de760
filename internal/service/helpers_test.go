package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/storage"
)

// Wednesday, so a day either side stays in the same reporting week.
var wednesday = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestServices(t *testing.T) (*Services, *testClock) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(context.Background(), filepath.Join(dir, "tally.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	clock := &testClock{now: wednesday}
	svc, err := NewServicesWithDB(db, filepath.Join(dir, "config.toml"), cfg, WithClock(clock.Now))
	if err != nil {
		_ = db.Close()
		t.Fatalf("NewServicesWithDB() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, clock
}

func mustProject(t *testing.T, svc *Services, user int64, name string, limit float64, due *time.Time) *model.Project {
	t.Helper()
	p, err := svc.Project.Create(context.Background(), user, name, limit, due)
	if err != nil {
		t.Fatalf("Project.Create() error = %v", err)
	}
	return p
}

func mustTask(t *testing.T, svc *Services, user int64, title string, projectID *int64) *model.Task {
	t.Helper()
	task, err := svc.Task.Create(context.Background(), user, title, projectID, nil)
	if err != nil {
		t.Fatalf("Task.Create() error = %v", err)
	}
	return task
}

func mustLog(t *testing.T, svc *Services, user, taskID int64, start time.Time, d time.Duration) *model.TimeEntry {
	t.Helper()
	e, err := svc.Entry.CreateManual(context.Background(), user, ManualEntry{TaskID: taskID, Start: &start, Duration: &d})
	if err != nil {
		t.Fatalf("CreateManual() error = %v", err)
	}
	return e
}

func ptr[T any](v T) *T { return &v }

func taskTotal(t *testing.T, svc *Services, id int64) int64 {
	t.Helper()
	task, err := svc.Task.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Task.Get() error = %v", err)
	}
	return task.TotalDurationSeconds
}

func projectHoursOf(t *testing.T, svc *Services, id int64) float64 {
	t.Helper()
	p, err := svc.Project.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Project.Get() error = %v", err)
	}
	return p.CurrentHours
}
