package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/tui/ui"
)

// maxVisibleThemes bounds the theme selector list.
const maxVisibleThemes = 10

// ConfigModel shows the effective configuration and picks the TUI theme.
type ConfigModel struct {
	services      *service.Services
	user          int64
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap

	width  int
	height int
	cfg    config.Config
	path   string
	exists bool
	theme  string

	selecting bool
	themes    []string
	cursor    int
	offset    int
}

// NewConfigModel creates the config view.
func NewConfigModel(services *service.Services, user int64, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	return ConfigModel{
		services:      services,
		user:          user,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		themes:        themeProvider.AvailableThemes(),
		theme:         themeProvider.CurrentName(),
		cursor:        themeProvider.Index(themeProvider.CurrentName()),
	}
}

type configLoadedMsg struct {
	cfg    config.Config
	path   string
	exists bool
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.load()
}

// Refresh rereads the configuration.
func (m ConfigModel) Refresh() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selecting {
			return m.handleSelector(msg)
		}
		if key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Themes) {
			m.selecting = true
			m.scrollToCursor()
		}

	case configLoadedMsg:
		m.cfg = msg.cfg
		m.path = msg.path
		m.exists = msg.exists

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.theme = msg.ThemeName
		m.cursor = m.themeProvider.Index(msg.ThemeName)
	}
	return m, nil
}

func (m ConfigModel) handleSelector(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.themes))
		m.scrollToCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.themes))
		m.scrollToCursor()
	case key.Matches(msg, m.keys.Select):
		m.selecting = false
		name := m.themes[m.cursor]
		return m, func() tea.Msg { return ui.ThemeChangeRequestMsg{ThemeName: name} }
	case key.Matches(msg, m.keys.Back):
		m.selecting = false
		m.cursor = m.themeProvider.Index(m.theme)
	}
	return m, nil
}

func (m *ConfigModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+maxVisibleThemes {
		m.offset = m.cursor - maxVisibleThemes + 1
	}
}

// IsSelecting reports whether the theme selector is open.
func (m ConfigModel) IsSelecting() bool {
	return m.selecting
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(renderLabelValue(m.styles, "Config file", m.path))
	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n")
	b.WriteString(renderLabelValue(m.styles, "Database", m.services.Maintenance.DatabasePath()))
	b.WriteString(renderLabelValue(m.styles, "Acting user", fmt.Sprintf("%d", m.user)))
	b.WriteString("\n")
	b.WriteString(rule(m.width))
	b.WriteString("\n\n")

	b.WriteString(renderLabelValue(m.styles, "user_id", fmt.Sprintf("%d", m.cfg.UserID)))
	b.WriteString(renderLabelValue(m.styles, "timezone", m.cfg.Timezone))
	b.WriteString(renderLabelValue(m.styles, "week_start_day", m.cfg.WeekStartDay))
	b.WriteString(renderLabelValue(m.styles, "deviation_threshold", fmt.Sprintf("%.2f", m.cfg.DeviationThreshold)))
	b.WriteString(renderLabelValue(m.styles, "log_level", m.cfg.LogLevel))

	if m.selecting {
		b.WriteString(m.renderSelector())
		return b.String()
	}
	b.WriteString(renderLabelValue(m.styles, "theme", m.theme))
	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	return b.String()
}

func (m ConfigModel) renderSelector() string {
	var b strings.Builder

	b.WriteString(m.styles.StatLabel.Render("theme:"))
	b.WriteString("\n")
	if m.offset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more"))
		b.WriteString("\n")
	}

	end := min(m.offset+maxVisibleThemes, len(m.themes))
	for i := m.offset; i < end; i++ {
		name := m.themes[i]
		label := name
		if name == m.theme {
			label += " (current)"
		}
		if i == m.cursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + label))
		} else {
			b.WriteString(m.styles.StatValue.Render("  " + label))
		}
		b.WriteString("\n")
	}

	if end < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m ConfigModel) load() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{
			cfg:    m.services.Config.Get(),
			path:   m.services.Config.GetPath(),
			exists: m.services.Config.Exists(),
		}
	}
}
