package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/tui/ui"
)

// NotificationsModel lists the user's notifications and runs the weekly
// checks on demand.
type NotificationsModel struct {
	services *service.Services
	user     int64
	styles   ui.Styles
	keys     ui.KeyMap

	width      int
	height     int
	notes      []*model.Notification
	cursor     int
	unreadOnly bool
	loading    bool
	message    string
	err        error
}

// NewNotificationsModel creates the notifications view for user.
func NewNotificationsModel(services *service.Services, user int64, styles ui.Styles, keys ui.KeyMap) NotificationsModel {
	return NotificationsModel{
		services: services,
		user:     user,
		styles:   styles,
		keys:     keys,
		loading:  true,
	}
}

type notesLoadedMsg struct {
	notes []*model.Notification
	err   error
}

// notesActionMsg reports the outcome of a check or a mark-read.
type notesActionMsg struct {
	message string
	err     error
}

// Init implements tea.Model
func (m NotificationsModel) Init() tea.Cmd {
	return m.load()
}

// Refresh reloads the list.
func (m NotificationsModel) Refresh() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m NotificationsModel) Update(msg tea.Msg) (NotificationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = clampCursor(m.cursor-1, len(m.notes))
		case key.Matches(msg, m.keys.Down):
			m.cursor = clampCursor(m.cursor+1, len(m.notes))
		case key.Matches(msg, m.keys.Select):
			if len(m.notes) > 0 && !m.notes[m.cursor].Read {
				return m, m.markRead(m.notes[m.cursor].ID)
			}
		case key.Matches(msg, m.keys.UnreadOnly):
			m.unreadOnly = !m.unreadOnly
			m.cursor = 0
			return m, m.load()
		case key.Matches(msg, m.keys.Check):
			m.message, m.err = "", nil
			return m, m.check()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case notesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.notes = msg.notes
		m.cursor = clampCursor(m.cursor, len(m.notes))

	case notesActionMsg:
		m.message, m.err = msg.message, msg.err
		if msg.err == nil {
			return m, m.load()
		}

	case ui.DataChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}
	return m, nil
}

// View implements tea.Model
func (m NotificationsModel) View() string {
	var b strings.Builder

	title := "Notifications"
	if m.unreadOnly {
		title += " (unread)"
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}

	if len(m.notes) == 0 {
		b.WriteString(m.styles.Idle.Render("No notifications"))
		b.WriteString("\n")
	}
	for i, n := range m.notes {
		b.WriteString(m.renderNote(n, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderResult(m.styles, m.message, m.err))
	return b.String()
}

func (m NotificationsModel) renderNote(n *model.Notification, selected bool) string {
	mark := " "
	if !n.Read {
		mark = m.styles.Unread.Render("•")
	}
	week := m.styles.RowTime.Render(n.WeekStart.Format("2006-01-02"))
	typ := m.styles.RowProject.Render(fmt.Sprintf("%-10s", n.Type))
	text := truncate(n.Message, max(30, m.width-40))

	line := fmt.Sprintf("%s %s %s %s", mark, week, typ, text)
	if selected {
		return m.styles.RowSelected.Render("▸ " + line)
	}
	return m.styles.RowNormal.Render("  " + line)
}

// SetSize sets the view dimensions
func (m *NotificationsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m NotificationsModel) load() tea.Cmd {
	unreadOnly := m.unreadOnly
	return func() tea.Msg {
		notes, err := m.services.Notify.List(background(), m.user, unreadOnly)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func (m NotificationsModel) markRead(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Notify.MarkRead(background(), m.user, id); err != nil {
			return notesActionMsg{err: err}
		}
		return notesActionMsg{message: "Marked as read"}
	}
}

// check runs the weekly status and goal checks. Both are idempotent per
// calendar week, so repeated checks add nothing new.
func (m NotificationsModel) check() tea.Cmd {
	return func() tea.Msg {
		ctx := background()
		weekly, err := m.services.Notify.CheckAllWeekly(ctx, m.user)
		if err != nil {
			return notesActionMsg{err: err}
		}
		goals, err := m.services.Notify.CheckGoals(ctx, m.user)
		if err != nil {
			return notesActionMsg{err: err}
		}

		created := len(goals)
		for _, r := range weekly {
			if r.Notification != nil {
				created++
			}
		}
		return notesActionMsg{message: fmt.Sprintf("Checked %d %s, %d new %s",
			len(weekly), cli.Pluralize("project", len(weekly)), created, cli.Pluralize("notification", created))}
	}
}
