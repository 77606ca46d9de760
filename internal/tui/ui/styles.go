package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Rows of entries, grid lines and notifications
	RowSelected lipgloss.Style
	RowNormal   lipgloss.Style
	RowID       lipgloss.Style
	RowTime     lipgloss.Style
	RowTitle    lipgloss.Style
	RowHours    lipgloss.Style
	RowProject  lipgloss.Style
	GridHeader  lipgloss.Style
	Unread      lipgloss.Style

	// Entry states
	Running lipgloss.Style
	Paused  lipgloss.Style
	Idle    lipgloss.Style
	Elapsed lipgloss.Style

	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	Input  lipgloss.Style
	Dialog lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// palette is the set of colors the styles are built from.
type palette struct {
	primary, secondary, accent, muted lipgloss.TerminalColor
	success, warning, danger          lipgloss.TerminalColor
	fg, bg, highlight                 lipgloss.TerminalColor
}

// DefaultStyles returns the styles for 256-color terminals without a theme.
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:   lipgloss.Color("99"),
		secondary: lipgloss.Color("39"),
		accent:    lipgloss.Color("212"),
		muted:     lipgloss.Color("240"),
		success:   lipgloss.Color("82"),
		warning:   lipgloss.Color("214"),
		danger:    lipgloss.Color("196"),
		fg:        lipgloss.Color("252"),
		bg:        lipgloss.Color("236"),
		highlight: lipgloss.Color("237"),
	})
}

// NewStylesFromRegistry maps the current bubbletint theme onto the styles:
// purple for tabs and titles, cyan for times and keys, bright purple for
// hours, bright black for labels, and green, yellow and red for states.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:   r.Purple(),
		secondary: r.Cyan(),
		accent:    r.BrightPurple(),
		muted:     r.BrightBlack(),
		success:   r.Green(),
		warning:   r.Yellow(),
		danger:    r.Red(),
		fg:        r.Fg(),
		bg:        r.Bg(),
		highlight: r.BrightBlack(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		RowSelected: lipgloss.NewStyle().
			Background(p.highlight).
			Bold(true),
		RowNormal: lipgloss.NewStyle(),
		RowID: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(6),
		RowTime: lipgloss.NewStyle().
			Foreground(p.secondary).
			Width(12),
		RowTitle: lipgloss.NewStyle().
			Foreground(p.fg),
		RowHours: lipgloss.NewStyle().
			Foreground(p.accent).
			Align(lipgloss.Right),
		RowProject: lipgloss.NewStyle().
			Foreground(p.primary),
		GridHeader: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		Unread: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),

		Running: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		Paused: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		Idle: lipgloss.NewStyle().
			Foreground(p.muted),
		Elapsed: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(50),

		Error: lipgloss.NewStyle().
			Foreground(p.danger),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
