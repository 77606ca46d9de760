package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/stats"
	"github.com/xolan/tally/internal/timeutil"
	"github.com/xolan/tally/internal/tui/ui"
)

const (
	weekLabelWidth = 28
	weekCellWidth  = 7
)

// WeekModel renders the weekly hours grid.
type WeekModel struct {
	services *service.Services
	user     int64
	styles   ui.Styles
	keys     ui.KeyMap

	width   int
	height  int
	offset  int // weeks before the current one
	byTask  bool
	report  *service.WeekReport
	loading bool
	err     error
}

// NewWeekModel creates the week view for user.
func NewWeekModel(services *service.Services, user int64, styles ui.Styles, keys ui.KeyMap) WeekModel {
	return WeekModel{
		services: services,
		user:     user,
		styles:   styles,
		keys:     keys,
		loading:  true,
	}
}

type weekLoadedMsg struct {
	report *service.WeekReport
	err    error
}

// Init implements tea.Model
func (m WeekModel) Init() tea.Cmd {
	return m.load()
}

// Refresh reloads the displayed week.
func (m WeekModel) Refresh() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m WeekModel) Update(msg tea.Msg) (WeekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.PrevWeek):
			m.offset++
			return m, m.load()
		case key.Matches(msg, m.keys.NextWeek):
			if m.offset > 0 {
				m.offset--
				return m, m.load()
			}
		case key.Matches(msg, m.keys.ThisWeek):
			m.offset = 0
			return m, m.load()
		case key.Matches(msg, m.keys.ByTask):
			m.byTask = !m.byTask
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case weekLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
		}

	case ui.DataChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}
	return m, nil
}

// View implements tea.Model
func (m WeekModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Week"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(renderResult(m.styles, "", m.err))
		return b.String()
	}

	r := m.report
	b.WriteString(m.styles.StatValue.Render(cli.FormatDateRangeForDisplay(r.Start, r.End.AddDate(0, 0, -1))))
	if m.byTask {
		b.WriteString(m.styles.StatLabel.Render("  by task"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderHeader(r.Start))
	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.styles.Idle.Render("No finished entries this week"))
		b.WriteString("\n")
	}
	for _, row := range rows {
		b.WriteString(m.renderRow(row.label, row.week, m.styles.RowTitle))
	}
	b.WriteString(rule(m.width))
	b.WriteString("\n")
	b.WriteString(m.renderRow("Total", r.Days, m.styles.StatLabel))
	b.WriteString("\n")

	b.WriteString(renderLabelValue(m.styles, "Entries", fmt.Sprintf("%d", r.Statistics.EntryCount)))
	b.WriteString(renderLabelValue(m.styles, "Days worked", fmt.Sprintf("%d", r.Statistics.DaysWithEntries)))
	b.WriteString(renderLabelValue(m.styles, "Average per day", cli.FormatHours(r.Statistics.AverageHoursPerDay)))
	return b.String()
}

type weekRow struct {
	label string
	ref   stats.ProjectRef
	week  stats.Week
}

func (m WeekModel) rows() []weekRow {
	var rows []weekRow
	if m.byTask {
		for k, w := range m.report.ByTask {
			rows = append(rows, weekRow{label: cli.FormatTask(k.Task, k.Project.Name), ref: k.Project, week: w})
		}
	} else {
		for ref, w := range m.report.ByProject {
			rows = append(rows, weekRow{label: ref.Name, ref: ref, week: w})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].label != rows[j].label {
			return rows[i].label < rows[j].label
		}
		return rows[i].ref.ID < rows[j].ref.ID
	})
	return rows
}

func (m WeekModel) renderHeader(start time.Time) string {
	var b strings.Builder
	b.WriteString(m.styles.GridHeader.Render(fmt.Sprintf("%-*s", weekLabelWidth, "")))
	for i := 0; i < timeutil.DaysPerWeek; i++ {
		day := start.AddDate(0, 0, i).Format("Mon")
		b.WriteString(m.styles.GridHeader.Render(fmt.Sprintf("%*s", weekCellWidth, day)))
	}
	b.WriteString(m.styles.GridHeader.Render(fmt.Sprintf("%*s", weekCellWidth+1, "Sum")))
	b.WriteString("\n")
	return b.String()
}

func (m WeekModel) renderRow(label string, w stats.Week, labelStyle lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", weekLabelWidth, truncate(label, weekLabelWidth-1))))
	for _, h := range w {
		cell := "-"
		if h > 0 {
			cell = fmt.Sprintf("%.2f", h)
		}
		b.WriteString(m.styles.RowHours.Render(fmt.Sprintf("%*s", weekCellWidth, cell)))
	}
	b.WriteString(m.styles.RowHours.Render(fmt.Sprintf("%*.2f", weekCellWidth+1, w.Total())))
	b.WriteString("\n")
	return b.String()
}

// SetSize sets the view dimensions
func (m *WeekModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m WeekModel) load() tea.Cmd {
	offset := m.offset
	return func() tea.Msg {
		day := m.services.Entry.Now().AddDate(0, 0, -timeutil.DaysPerWeek*offset)
		r, err := m.services.Report.Week(background(), m.user, day)
		return weekLoadedMsg{report: r, err: err}
	}
}
