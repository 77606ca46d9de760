package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/storage"
)

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

type testEnv struct {
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	exit   int
	clock  *fakeClock
}

// setupCmd points the commands at a fresh database. Every command opens
// and closes its own services, like the binary does.
func setupCmd(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()
	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		clock:  &fakeClock{now: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)},
	}

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	SetDeps(&Deps{
		Stdout: env.stdout,
		Stderr: env.stderr,
		Stdin:  strings.NewReader(""),
		Exit:   func(code int) { env.exit = code },
		Services: func(ctx context.Context) (*service.Services, error) {
			db, err := storage.Open(ctx, filepath.Join(tmpDir, "tally.db"))
			if err != nil {
				return nil, err
			}
			s, err := service.NewServicesWithDB(db, filepath.Join(tmpDir, "config.toml"), cfg, service.WithClock(env.clock.Now))
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			return s, nil
		},
	})
	t.Cleanup(ResetDeps)
	return env
}

// resetFlags restores every flag to its default, since cobra keeps parsed
// values on the package-level commands between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the command line and returns what it printed since the last
// call.
func (env *testEnv) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	env.stdout.Reset()
	env.stderr.Reset()
	env.exit = 0

	rootCmd.SetArgs(args)
	rootCmd.SetOut(env.stdout)
	rootCmd.SetErr(env.stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return env.stdout.String(), env.stderr.String(), err
}

// mustRun executes args and fails the test on any error output.
func (env *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := env.execute(t, args...)
	if err != nil || env.exit != 0 {
		t.Fatalf("tally %s: err=%v exit=%d stderr=%s", strings.Join(args, " "), err, env.exit, stderr)
	}
	return stdout
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRoot_ShowsStatus(t *testing.T) {
	env := setupCmd(t)
	out := env.mustRun(t)
	assertContains(t, out, "No entries running", "Today: 0.00h")
}

func TestTimerLifecycle(t *testing.T) {
	env := setupCmd(t)

	out := env.mustRun(t, "start")
	assertContains(t, out, "Started entry #1: Untitled Task", "(Created untitled task #1)")

	env.clock.Advance(30 * time.Minute)
	out = env.mustRun(t, "status")
	assertContains(t, out, "(running)", "Elapsed: 30m")

	out = env.mustRun(t, "pause")
	assertContains(t, out, "Paused entry #1", "30m so far")

	env.clock.Advance(time.Hour)
	env.mustRun(t, "resume", "1")
	env.clock.Advance(15 * time.Minute)

	out = env.mustRun(t, "stop")
	assertContains(t, out, "Stopped entry #1", "(45m)")

	out = env.mustRun(t)
	assertContains(t, out, "No entries running", "Today: 0.75h")
}

func TestStart_ConflictOnSameTask(t *testing.T) {
	env := setupCmd(t)
	env.mustRun(t, "task", "add", "Review")
	env.mustRun(t, "start", "1")

	_, stderr, err := env.execute(t, "start", "1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if env.exit != 1 {
		t.Errorf("exit = %d, want 1", env.exit)
	}
	assertContains(t, stderr, "Error: An entry is already open for this task")
}

func TestUserFlag(t *testing.T) {
	env := setupCmd(t)

	env.mustRun(t, "--user", "2", "start")
	out := env.mustRun(t, "status")
	assertContains(t, out, "No entries running")

	out = env.mustRun(t, "status", "--user", "2")
	assertContains(t, out, "Untitled Task", "(running)")

	_, stderr, _ := env.execute(t, "status", "--user", "0")
	if env.exit != 1 {
		t.Errorf("exit = %d, want 1", env.exit)
	}
	assertContains(t, stderr, "Error: No acting user", "Hint: Pass --user")
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"entry id", []string{"pause", "abc"}, "Error: Invalid entry id"},
		{"task id", []string{"log", "0", "--duration", "1h"}, "Error: Invalid task id"},
		{"duration", []string{"log", "1", "--duration", "soon"}, "Error: Invalid --duration"},
		{"start", []string{"log", "1", "--start", "31/02/2025 10:00", "--duration", "1h"}, "Error: Invalid --start"},
		{"date range", []string{"list", "--from", "2025-13-01"}, "Error: Invalid date range"},
		{"hours", []string{"project", "limit", "1", "lots"}, "Error: Invalid hours 'lots'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCmd(t)
			_, stderr, err := env.execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if env.exit != 1 {
				t.Errorf("exit = %d, want 1", env.exit)
			}
			assertContains(t, stderr, tt.want)
		})
	}
}

func TestServicesFailure(t *testing.T) {
	env := setupCmd(t)
	deps.Services = func(context.Context) (*service.Services, error) {
		return nil, errors.New("disk on fire")
	}

	_, stderr, _ := env.execute(t, "status")
	if env.exit != 1 {
		t.Errorf("exit = %d, want 1", env.exit)
	}
	assertContains(t, stderr, "Error: Failed to initialize", "Details: disk on fire")
}

func TestProjectsTasksAndReports(t *testing.T) {
	env := setupCmd(t)

	out := env.mustRun(t, "project", "add", "Thesis", "--limit", "40", "--due", "2025-06-30")
	assertContains(t, out, "Added project #1: Thesis (40.00h planned)")

	out = env.mustRun(t, "task", "add", "Write intro @Thesis")
	assertContains(t, out, "Added task #1")

	out = env.mustRun(t, "log", "1", "--start", "2025-03-12 08:00", "--duration", "1h30m", "--comment", "draft")
	assertContains(t, out, "Logged entry #1", "1h 30m")

	out = env.mustRun(t, "list")
	assertContains(t, out, "Entries for today", "Write intro", "draft")

	out = env.mustRun(t, "report")
	assertContains(t, out, "Week of", "Thesis", "1.50")

	out = env.mustRun(t, "project", "list")
	assertContains(t, out, "Thesis", "1.50h", "40.00h", "2025-06-30")

	out = env.mustRun(t, "task", "done", "1")
	assertContains(t, out, "Task #1 Write intro is now done")

	out = env.mustRun(t, "progress")
	assertContains(t, out, "Thesis")
}

func TestEditAndDelete(t *testing.T) {
	env := setupCmd(t)
	env.mustRun(t, "task", "add", "Review")
	env.mustRun(t, "log", "1", "--duration", "1h")

	out := env.mustRun(t, "edit", "1", "--duration", "30m", "--comment", "shorter")
	assertContains(t, out, "Updated entry #1", "30m")

	out = env.mustRun(t, "delete", "1")
	assertContains(t, out, "Delete this entry? [y/N]", "Deletion cancelled")

	out = env.mustRun(t, "delete", "1", "--yes")
	assertContains(t, out, "Deleted entry #1 (30m)")

	out = env.mustRun(t, "list")
	assertContains(t, out, "No entries found for today")
}

func TestCheckAndNotifications(t *testing.T) {
	env := setupCmd(t)

	out := env.mustRun(t, "check")
	assertContains(t, out, "No active projects with a due date")

	env.mustRun(t, "project", "add", "Thesis", "--limit", "40", "--due", "2025-06-30")
	out = env.mustRun(t, "check")
	assertContains(t, out, "Thesis: on track", "Notified:")

	out = env.mustRun(t, "notifications")
	assertContains(t, out, "1 notification")

	out = env.mustRun(t, "notes", "--unread")
	assertContains(t, out, "on track")
}

func TestConfigAndMaintenance(t *testing.T) {
	env := setupCmd(t)

	out := env.mustRun(t, "config")
	assertContains(t, out, "Configuration:", "Using defaults")

	out = env.mustRun(t, "doctor")
	assertContains(t, out, "Totals are consistent")

	out = env.mustRun(t, "backup", "list")
	assertContains(t, out, "No backups found")
}

func TestCompletion(t *testing.T) {
	env := setupCmd(t)

	out := env.mustRun(t, "completion", "bash")
	assertContains(t, out, "tally")

	if _, _, err := env.execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
