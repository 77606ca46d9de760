// Package tui provides the Terminal User Interface for the tally application.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/tui/ui"
	"github.com/xolan/tally/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTimer Tab = iota
	TabWeek
	TabNotifications
	TabConfig
)

var tabNames = []string{"Timer", "Week", "Notifications", "Config"}

// Model is the root TUI model
type Model struct {
	services *service.Services
	user     int64

	activeTab Tab
	width     int
	height    int
	showHelp  bool

	timerView views.TimerModel
	weekView  views.WeekModel
	notesView views.NotificationsModel
	cfgView   views.ConfigModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates the root model acting as user.
func New(services *service.Services, user int64) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		user:          user,
		activeTab:     TabTimer,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		timerView:     views.NewTimerModel(services, user, styles, keys),
		weekView:      views.NewWeekModel(services, user, styles, keys),
		notesView:     views.NewNotificationsModel(services, user, styles, keys),
		cfgView:       views.NewConfigModel(services, user, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.weekView.Init(),
		m.notesView.Init(),
		m.cfgView.Init(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While a view captures input, only that view sees keys.
		if !m.isCapturingKeys() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = !m.showHelp
				return m, nil
			case key.Matches(msg, m.keys.NextTab):
				return m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
			case key.Matches(msg, m.keys.PrevTab):
				return m.switchTab(Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames)))
			case key.Matches(msg, m.keys.Tab1):
				return m.switchTab(TabTimer)
			case key.Matches(msg, m.keys.Tab2):
				return m.switchTab(TabWeek)
			case key.Matches(msg, m.keys.Tab3):
				return m.switchTab(TabNotifications)
			case key.Matches(msg, m.keys.Tab4):
				return m.switchTab(TabConfig)
			}
		}
		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 4
		m.timerView.SetSize(m.width, contentHeight)
		m.weekView.SetSize(m.width, contentHeight)
		m.notesView.SetSize(m.width, contentHeight)
		m.cfgView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		m.styles = m.themeProvider.Styles()
		return m.broadcast(ui.ThemeChangedMsg{ThemeName: m.themeProvider.CurrentName(), Styles: m.styles},
			m.saveTheme(m.themeProvider.CurrentName()))
	}

	// Views ignore what they do not know, so results reach their view
	// whichever tab is shown.
	return m.broadcast(msg)
}

// broadcast hands msg to every view.
func (m Model) broadcast(msg tea.Msg, extra ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4+len(extra))
	var cmd tea.Cmd
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	m.weekView, cmd = m.weekView.Update(msg)
	cmds = append(cmds, cmd)
	m.notesView, cmd = m.notesView.Update(msg)
	cmds = append(cmds, cmd)
	m.cfgView, cmd = m.cfgView.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, extra...)
	return m, tea.Batch(cmds...)
}

func (m Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTimer:
		m.timerView, cmd = m.timerView.Update(msg)
	case TabWeek:
		m.weekView, cmd = m.weekView.Update(msg)
	case TabNotifications:
		m.notesView, cmd = m.notesView.Update(msg)
	case TabConfig:
		m.cfgView, cmd = m.cfgView.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.activeTab = t
	switch t {
	case TabTimer:
		return m, m.timerView.Refresh()
	case TabWeek:
		return m, m.weekView.Refresh()
	case TabNotifications:
		return m, m.notesView.Refresh()
	default:
		return m, m.cfgView.Refresh()
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabWeek:
		b.WriteString(m.weekView.View())
	case TabNotifications:
		b.WriteString(m.notesView.View())
	case TabConfig:
		b.WriteString(m.cfgView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.styles.App.Render(b.String())
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// viewKeys lists the bindings shown in the status bar and help overlay for
// the active tab.
func (m Model) viewKeys() []key.Binding {
	switch m.activeTab {
	case TabTimer:
		return []key.Binding{m.keys.Start, m.keys.Pause, m.keys.Resume, m.keys.Stop, m.keys.Refresh}
	case TabWeek:
		return []key.Binding{m.keys.PrevWeek, m.keys.NextWeek, m.keys.ThisWeek, m.keys.ByTask}
	case TabNotifications:
		return []key.Binding{m.keys.Select, m.keys.UnreadOnly, m.keys.Check, m.keys.Refresh}
	default:
		return []key.Binding{m.keys.Themes}
	}
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.isCapturingKeys() {
		parts = append(parts, m.renderKeyHelp("enter", "confirm"), m.renderKeyHelp("esc", "cancel"))
	} else {
		for _, b := range m.viewKeys() {
			parts = append(parts, m.renderKeyHelp(b.Help().Key, b.Help().Desc))
		}
		parts = append(parts,
			m.renderKeyHelp("1-4", "views"),
			m.renderKeyHelp("?", "help"),
			m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(k, desc string) string {
	return fmt.Sprintf("%s %s", m.styles.StatusKey.Render(k), m.styles.StatusHelp.Render(desc))
}

// isCapturingKeys reports whether the active view owns the keyboard.
func (m Model) isCapturingKeys() bool {
	switch m.activeTab {
	case TabTimer:
		return m.timerView.IsInputMode()
	case TabConfig:
		return m.cfgView.IsSelecting()
	}
	return false
}

func (m Model) saveTheme(name string) tea.Cmd {
	return func() tea.Msg {
		_ = m.services.Config.SetTheme(name)
		return nil
	}
}

func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")
	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  tab/1-4    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n\n")

	help.WriteString(m.styles.StatLabel.Render(tabNames[m.activeTab] + ":"))
	help.WriteString("\n")
	for _, b := range m.viewKeys() {
		fmt.Fprintf(&help, "  %-10s %s\n", b.Help().Key, b.Help().Desc)
	}
	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI acting as user.
func Run(services *service.Services, user int64) error {
	p := tea.NewProgram(New(services, user), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
