package handlers

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/storage"
)

const testUser int64 = 1

// Wednesday morning, so the whole test day falls in one reporting week.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTestDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int, *fakeClock) {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := storage.Open(context.Background(), filepath.Join(tmpDir, "tally.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	clock := &fakeClock{now: testNow}
	services, err := service.NewServicesWithDB(db, filepath.Join(tmpDir, "config.toml"), cfg, service.WithClock(clock.Now))
	if err != nil {
		_ = db.Close()
		t.Fatalf("NewServicesWithDB() error = %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	deps := &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(""),
		Exit:     func(code int) { exitCode = code },
		Services: services,
		User:     testUser,
	}
	return deps, stdout, stderr, &exitCode, clock
}

func addProject(t *testing.T, deps *cli.Deps, name string, limit float64, due *time.Time) *model.Project {
	t.Helper()
	p, err := deps.Services.Project.Create(context.Background(), deps.User, name, limit, due)
	if err != nil {
		t.Fatalf("Project.Create() error = %v", err)
	}
	return p
}

func addTask(t *testing.T, deps *cli.Deps, title string, projectID *int64) *model.Task {
	t.Helper()
	task, err := deps.Services.Task.Create(context.Background(), deps.User, title, projectID, nil)
	if err != nil {
		t.Fatalf("Task.Create() error = %v", err)
	}
	return task
}

func logWork(t *testing.T, deps *cli.Deps, taskID int64, start time.Time, d time.Duration) *model.TimeEntry {
	t.Helper()
	e, err := deps.Services.Entry.CreateManual(context.Background(), deps.User, service.ManualEntry{
		TaskID:   taskID,
		Start:    &start,
		Duration: &d,
	})
	if err != nil {
		t.Fatalf("CreateManual() error = %v", err)
	}
	return e
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected %q in output, got %q", want, output)
	}
}

func assertExit(t *testing.T, got *int, want int) {
	t.Helper()
	if *got != want {
		t.Errorf("expected exit code %d, got %d", want, *got)
	}
}
