package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/storage"
	"github.com/xolan/tally/internal/tui/ui"
)

// TimerModel shows the user's running and paused entries and drives their
// lifecycle.
type TimerModel struct {
	services *service.Services
	user     int64
	styles   ui.Styles
	keys     ui.KeyMap

	width   int
	height  int
	entries []storage.EntryDetail
	cursor  int
	now     time.Time
	today   float64
	loading bool
	message string
	err     error

	inputMode bool
	input     textinput.Model
}

// NewTimerModel creates the timer view for user.
func NewTimerModel(services *service.Services, user int64, styles ui.Styles, keys ui.KeyMap) TimerModel {
	ti := textinput.New()
	ti.Placeholder = "Task id (empty for a new untitled task)"
	ti.CharLimit = 20
	ti.Width = 50

	return TimerModel{
		services: services,
		user:     user,
		styles:   styles,
		keys:     keys,
		input:    ti,
		loading:  true,
	}
}

type timerLoadedMsg struct {
	entries []storage.EntryDetail
	today   float64
	now     time.Time
	err     error
}

// timerTickMsg refreshes elapsed times once a second.
type timerTickMsg time.Time

// timerActionMsg reports a lifecycle change made from the timer view.
type timerActionMsg struct {
	message string
	err     error
}

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

// Refresh reloads the open entries without starting another ticker.
func (m TimerModel) Refresh() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}
		return m.handleKey(msg)

	case timerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.today = msg.today
		m.now = msg.now
		m.cursor = clampCursor(m.cursor, len(m.entries))
		return m, nil

	case timerTickMsg:
		m.now = m.services.Entry.Now()
		return m, m.tick()

	case timerActionMsg:
		m.message, m.err = msg.message, msg.err
		if msg.err != nil {
			return m, nil
		}
		return m, dataChanged

	case ui.DataChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.entries))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.entries))
	case key.Matches(msg, m.keys.Start):
		m.inputMode = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Refresh):
		m.message, m.err = "", nil
		return m, m.load()
	case key.Matches(msg, m.keys.Pause):
		if e, ok := m.selected(); ok && e.State() == model.StateRunning {
			return m, m.transition("Paused", e.ID, m.services.Entry.Pause)
		}
	case key.Matches(msg, m.keys.Resume):
		if e, ok := m.selected(); ok && e.State() == model.StatePaused {
			return m, m.transition("Resumed", e.ID, m.services.Entry.Resume)
		}
	case key.Matches(msg, m.keys.Stop):
		if e, ok := m.selected(); ok {
			return m, m.transition("Stopped", e.ID, m.services.Entry.Stop)
		}
	}
	return m, nil
}

func (m TimerModel) handleInputMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		raw := strings.TrimSpace(m.input.Value())
		var taskID int64
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				m.err = fmt.Errorf("invalid task id %q", raw)
				return m, nil
			}
			taskID = id
		}
		m.inputMode = false
		m.input.Blur()
		return m, m.start(taskID)
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TimerModel) selected() (storage.EntryDetail, bool) {
	if len(m.entries) == 0 {
		return storage.EntryDetail{}, false
	}
	return m.entries[m.cursor], true
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render("Start tracking"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(renderResult(m.styles, "", m.err))
		b.WriteString(m.styles.StatLabel.Render("Enter to start, Esc to cancel"))
		return b.String()
	}

	if len(m.entries) == 0 {
		b.WriteString(m.styles.Idle.Render("Nothing is being tracked"))
		b.WriteString("\n\n")
	} else {
		for i, e := range m.entries {
			b.WriteString(m.renderEntry(e, i == m.cursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(renderLabelValue(m.styles, "Today", cli.FormatHours(m.today)))
	b.WriteString("\n")
	b.WriteString(renderResult(m.styles, m.message, m.err))
	return b.String()
}

func (m TimerModel) renderEntry(e storage.EntryDetail, selected bool) string {
	marker := m.styles.Running.Render("●")
	if e.State() == model.StatePaused {
		marker = m.styles.Paused.Render("‖")
	}
	elapsed := m.styles.Elapsed.Render(cli.FormatDuration(e.Elapsed(m.now)))
	id := m.styles.RowID.Render(fmt.Sprintf("#%d", e.ID))
	title := m.styles.RowTitle.Render(truncate(cli.FormatTask(e.TaskTitle, e.ProjectName), max(20, m.width-30)))

	line := fmt.Sprintf("%s %s %s  %s", marker, id, title, elapsed)
	if e.FirstStart != nil {
		line += "  " + m.styles.RowTime.Render("since "+e.FirstStart.Format("15:04"))
	}
	if selected {
		return m.styles.RowSelected.Render("▸ " + line)
	}
	return m.styles.RowNormal.Render("  " + line)
}

// IsInputMode reports whether the task prompt has focus.
func (m TimerModel) IsInputMode() bool {
	return m.inputMode
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m TimerModel) load() tea.Cmd {
	return func() tea.Msg {
		ctx := background()
		entries, err := m.services.Entry.Active(ctx, m.user)
		if err != nil {
			return timerLoadedMsg{err: err}
		}
		today, err := m.services.Report.Today(ctx, m.user)
		if err != nil {
			return timerLoadedMsg{err: err}
		}
		return timerLoadedMsg{entries: entries, today: today, now: m.services.Entry.Now()}
	}
}

func (m TimerModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (m TimerModel) start(taskID int64) tea.Cmd {
	return func() tea.Msg {
		e, err := m.services.Entry.Start(background(), m.user, taskID, "")
		if err != nil {
			return timerActionMsg{err: err}
		}
		return timerActionMsg{message: fmt.Sprintf("Started entry #%d on task #%d", e.ID, e.TaskID)}
	}
}

type lifecycleFunc func(ctx context.Context, userID, entryID int64) (*model.TimeEntry, error)

func (m TimerModel) transition(verb string, entryID int64, fn lifecycleFunc) tea.Cmd {
	return func() tea.Msg {
		e, err := fn(background(), m.user, entryID)
		if err != nil {
			return timerActionMsg{err: err}
		}
		return timerActionMsg{message: fmt.Sprintf("%s entry #%d (%s)", verb, e.ID, cli.FormatSeconds(e.DurationSeconds))}
	}
}
