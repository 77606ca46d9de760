package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/storage"
	"github.com/xolan/tally/internal/tui/ui"
)

const testUser int64 = 1

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func setupTestServices(t *testing.T) *service.Services {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := storage.Open(context.Background(), filepath.Join(tmpDir, "tally.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	services, err := service.NewServicesWithDB(db, filepath.Join(tmpDir, "config.toml"), cfg,
		service.WithClock(func() time.Time { return testNow }))
	if err != nil {
		_ = db.Close()
		t.Fatalf("NewServicesWithDB() error = %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })
	return services
}

func addTask(t *testing.T, s *service.Services, title string, projectID *int64) *model.Task {
	t.Helper()
	task, err := s.Task.Create(context.Background(), testUser, title, projectID, nil)
	if err != nil {
		t.Fatalf("Task.Create() error = %v", err)
	}
	return task
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// run executes cmd and returns its message, failing on a nil command.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title", 8, "a longe…"},
		{"ünïcödé title", 5, "ünïc…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{1, 3, 1},
		{5, 3, 2},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestRenderResult(t *testing.T) {
	styles := ui.DefaultStyles()
	if got := renderResult(styles, "", nil); got != "" {
		t.Errorf("renderResult() = %q, want empty", got)
	}
	if got := renderResult(styles, "done", nil); !strings.Contains(got, "done") {
		t.Errorf("renderResult() = %q, want message", got)
	}
	if got := renderResult(styles, "done", context.Canceled); !strings.Contains(got, "Error: context canceled") {
		t.Errorf("renderResult() = %q, want error", got)
	}
}

func TestTimerModel_Empty(t *testing.T) {
	services := setupTestServices(t)
	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())

	if !strings.Contains(m.View(), "Loading...") {
		t.Error("expected loading state before the first load")
	}

	m, _ = m.Update(run(t, m.load()))
	view := m.View()
	if !strings.Contains(view, "Nothing is being tracked") {
		t.Errorf("expected idle message, got:\n%s", view)
	}
	if !strings.Contains(view, "0.00h") {
		t.Errorf("expected today's total, got:\n%s", view)
	}
}

func TestTimerModel_StartFromInput(t *testing.T) {
	services := setupTestServices(t)
	task := addTask(t, services, "Write intro", nil)
	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())
	m, _ = m.Update(run(t, m.load()))

	m, _ = m.Update(keyRune('s'))
	if !m.IsInputMode() {
		t.Fatal("expected input mode after 's'")
	}
	m.input.SetValue("1")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsInputMode() {
		t.Error("expected input mode to end on enter")
	}
	m, cmd = m.Update(run(t, cmd))
	if m.err != nil {
		t.Fatalf("start failed: %v", m.err)
	}
	if !strings.Contains(m.message, "Started entry #1 on task #1") {
		t.Errorf("message = %q", m.message)
	}
	if _, ok := run(t, cmd).(ui.DataChangedMsg); !ok {
		t.Error("expected a data change after starting")
	}

	m, _ = m.Update(run(t, m.load()))
	if len(m.entries) != 1 || m.entries[0].TaskID != task.ID {
		t.Fatalf("entries = %+v, want one entry for task %d", m.entries, task.ID)
	}
	if !strings.Contains(m.View(), "Write intro") {
		t.Errorf("expected task title in view:\n%s", m.View())
	}
}

func TestTimerModel_InvalidTaskID(t *testing.T) {
	services := setupTestServices(t)
	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())
	m, _ = m.Update(run(t, m.load()))

	m, _ = m.Update(keyRune('s'))
	m.input.SetValue("abc")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an invalid id")
	}
	if !m.IsInputMode() {
		t.Error("expected to stay in input mode")
	}
	if m.err == nil || !strings.Contains(m.View(), "invalid task id") {
		t.Errorf("expected invalid id error, got view:\n%s", m.View())
	}
}

func TestTimerModel_EscapeCancels(t *testing.T) {
	services := setupTestServices(t)
	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRune('s'))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsInputMode() || cmd != nil {
		t.Error("expected escape to leave input mode without a command")
	}
}

func TestTimerModel_Lifecycle(t *testing.T) {
	services := setupTestServices(t)
	ctx := context.Background()
	task := addTask(t, services, "Review", nil)
	if _, err := services.Entry.Start(ctx, testUser, task.ID, ""); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())
	m, _ = m.Update(run(t, m.load()))

	// Resume on a running entry does nothing.
	if _, cmd := m.Update(keyRune('u')); cmd != nil {
		t.Error("expected resume to be ignored while running")
	}

	_, cmd := m.Update(keyRune('p'))
	m, _ = m.Update(run(t, cmd))
	if m.err != nil || !strings.Contains(m.message, "Paused entry #1") {
		t.Fatalf("pause: message=%q err=%v", m.message, m.err)
	}
	m, _ = m.Update(run(t, m.load()))
	if m.entries[0].State() != model.StatePaused {
		t.Fatalf("state = %s, want paused", m.entries[0].State())
	}
	if !strings.Contains(m.View(), "‖") {
		t.Error("expected paused marker")
	}

	_, cmd = m.Update(keyRune('x'))
	m, _ = m.Update(run(t, cmd))
	if m.err != nil || !strings.Contains(m.message, "Stopped entry #1") {
		t.Fatalf("stop: message=%q err=%v", m.message, m.err)
	}
	m, _ = m.Update(run(t, m.load()))
	if len(m.entries) != 0 {
		t.Errorf("expected no open entries after stop, got %d", len(m.entries))
	}
}

func TestTimerModel_ThemeChanged(t *testing.T) {
	services := setupTestServices(t)
	m := NewTimerModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())

	styles := ui.NewThemeProvider("dracula").Styles()
	m, cmd := m.Update(ui.ThemeChangedMsg{ThemeName: "dracula", Styles: styles})
	if cmd != nil {
		t.Error("expected no command on theme change")
	}
	if m.styles.RowID.GetWidth() != styles.RowID.GetWidth() {
		t.Error("expected styles to be replaced")
	}
}

func TestWeekModel(t *testing.T) {
	services := setupTestServices(t)
	ctx := context.Background()
	p, err := services.Project.Create(ctx, testUser, "Thesis", 40, nil)
	if err != nil {
		t.Fatalf("Project.Create() error = %v", err)
	}
	task := addTask(t, services, "Chapter 1", &p.ID)
	start := testNow.Add(-2 * time.Hour)
	d := 90 * time.Minute
	if _, err := services.Entry.CreateManual(ctx, testUser, service.ManualEntry{
		TaskID: task.ID, Start: &start, Duration: &d,
	}); err != nil {
		t.Fatalf("CreateManual() error = %v", err)
	}

	m := NewWeekModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())
	m.SetSize(120, 40)
	m, _ = m.Update(run(t, m.load()))

	view := m.View()
	for _, want := range []string{"Thesis", "1.50", "Mon", "Sun", "Total", "Mar 10 - Mar 16, 2025"} {
		if !strings.Contains(view, want) {
			t.Errorf("week view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(keyRune('b'))
	if !strings.Contains(m.View(), "Chapter 1 [@Thesis]") {
		t.Errorf("expected by-task rows:\n%s", m.View())
	}

	m, cmd := m.Update(keyRune('h'))
	if m.offset != 1 {
		t.Fatalf("offset = %d, want 1", m.offset)
	}
	m, _ = m.Update(run(t, cmd))
	if !strings.Contains(m.View(), "No finished entries this week") {
		t.Errorf("expected empty previous week:\n%s", m.View())
	}

	// Future weeks are not reachable.
	m, _ = m.Update(keyRune('l'))
	if _, cmd := m.Update(keyRune('l')); cmd != nil {
		t.Error("expected next week to stop at the current week")
	}
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestNotificationsModel(t *testing.T) {
	services := setupTestServices(t)
	ctx := context.Background()
	due := testNow.AddDate(0, 0, 14)
	if _, err := services.Project.Create(ctx, testUser, "Thesis", 40, &due); err != nil {
		t.Fatalf("Project.Create() error = %v", err)
	}

	m := NewNotificationsModel(services, testUser, ui.DefaultStyles(), ui.DefaultKeyMap())
	m.SetSize(120, 40)
	m, _ = m.Update(run(t, m.load()))
	if !strings.Contains(m.View(), "No notifications") {
		t.Errorf("expected empty list:\n%s", m.View())
	}

	_, cmd := m.Update(keyRune('c'))
	m, cmd = m.Update(run(t, cmd))
	if m.err != nil {
		t.Fatalf("check failed: %v", m.err)
	}
	if !strings.Contains(m.message, "Checked 1 project, 1 new notification") {
		t.Errorf("message = %q", m.message)
	}
	m, _ = m.Update(run(t, cmd))
	if len(m.notes) != 1 || m.notes[0].Read {
		t.Fatalf("notes = %+v, want one unread", m.notes)
	}
	if !strings.Contains(m.View(), "progress") {
		t.Errorf("expected progress notification:\n%s", m.View())
	}

	// A second check in the same week adds nothing.
	_, cmd = m.Update(keyRune('c'))
	m, _ = m.Update(run(t, cmd))
	if !strings.Contains(m.message, "0 new notifications") {
		t.Errorf("message = %q", m.message)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = m.Update(run(t, cmd))
	if m.err != nil {
		t.Fatalf("mark read failed: %v", m.err)
	}
	m, _ = m.Update(run(t, cmd))
	if !m.notes[0].Read {
		t.Error("expected notification to be read")
	}

	m, cmd = m.Update(keyRune('f'))
	if !m.unreadOnly {
		t.Fatal("expected unread filter")
	}
	m, _ = m.Update(run(t, cmd))
	if len(m.notes) != 0 || !strings.Contains(m.View(), "Notifications (unread)") {
		t.Errorf("expected no unread notifications:\n%s", m.View())
	}
}

func TestConfigModel(t *testing.T) {
	services := setupTestServices(t)
	tp := ui.NewThemeProvider("")
	m := NewConfigModel(services, testUser, tp, tp.Styles(), ui.DefaultKeyMap())
	m.SetSize(100, 40)
	m, _ = m.Update(run(t, m.load()))

	view := m.View()
	for _, want := range []string{"Configuration", "config.toml", "Using defaults", "deviation_threshold", "0.10", "dracula"} {
		if !strings.Contains(view, want) {
			t.Errorf("config view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(keyRune('t'))
	if !m.IsSelecting() {
		t.Fatal("expected theme selector to open")
	}
	if !strings.Contains(m.View(), "(current)") {
		t.Error("expected current theme marker")
	}

	start := m.cursor
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	want := m.themes[clampCursor(start+1, len(m.themes))]
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsSelecting() {
		t.Error("expected selector to close")
	}
	req, ok := run(t, cmd).(ui.ThemeChangeRequestMsg)
	if !ok || req.ThemeName != want {
		t.Errorf("request = %+v, want theme %q", req, want)
	}
}

func TestConfigModel_EscapeRestoresCursor(t *testing.T) {
	services := setupTestServices(t)
	tp := ui.NewThemeProvider("")
	m := NewConfigModel(services, testUser, tp, tp.Styles(), ui.DefaultKeyMap())
	start := m.cursor

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.IsSelecting() {
		t.Error("expected escape to close without a request")
	}
	if m.cursor != start {
		t.Errorf("cursor = %d, want %d", m.cursor, start)
	}
}
