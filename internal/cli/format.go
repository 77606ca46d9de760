// Package cli provides the CLI presentation layer for the tally application.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/stats"
	"github.com/xolan/tally/internal/storage"
)

// FormatDuration formats a duration as a human-readable string
// Examples: "45s", "30m", "2h", "1h 30m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	totalMinutes := int(d.Minutes())
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm", totalMinutes)
	}
	hours := totalMinutes / 60
	mins := totalMinutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatSeconds is FormatDuration for a whole number of seconds.
func FormatSeconds(seconds int64) string {
	return FormatDuration(time.Duration(seconds) * time.Second)
}

// FormatHours formats decimal hours with two places, e.g. "1.50h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

// FormatPercent formats a 0..1 ratio as a whole percentage.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// FormatTask formats a task title with its project for display.
// Returns "title" or "title [@project]".
func FormatTask(title, project string) string {
	if project == "" || project == stats.NoProject {
		return title
	}
	return fmt.Sprintf("%s [@%s]", title, project)
}

// FormatEntry formats a stored entry as "#id title [@project]".
func FormatEntry(e storage.EntryDetail) string {
	return fmt.Sprintf("#%d %s", e.ID, FormatTask(e.TaskTitle, e.ProjectName))
}

// FormatState labels an entry's lifecycle state.
func FormatState(e *model.TimeEntry) string {
	switch e.State() {
	case model.StateRunning:
		return "running"
	case model.StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end time.Time) string {
	if start.Format(time.DateOnly) == end.Format(time.DateOnly) {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// BuildPeriodWithFilters appends filter information to the period description.
// Example: "this week" -> "this week (@thesis task 4)"
func BuildPeriodWithFilters(period string, filters ...string) string {
	var parts []string
	for _, f := range filters {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return period
	}
	return fmt.Sprintf("%s (%s)", period, strings.Join(parts, " "))
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if n := len(word); n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])) {
		return word[:n-1] + "ies"
	}
	return word + "s"
}

// SpansMultipleDays checks if entries start on more than one calendar day
func SpansMultipleDays(entries []storage.EntryDetail) bool {
	if len(entries) < 2 {
		return false
	}
	firstDay := entries[0].ReportStart().Format(time.DateOnly)
	for _, e := range entries[1:] {
		if e.ReportStart().Format(time.DateOnly) != firstDay {
			return true
		}
	}
	return false
}

// FormatStartTime formats a start time relative to now for display
func FormatStartTime(startedAt, now time.Time) string {
	startTime := startedAt.Format("3:04 PM")

	isToday := startedAt.Year() == now.Year() &&
		startedAt.Month() == now.Month() &&
		startedAt.Day() == now.Day()

	if isToday {
		return fmt.Sprintf("today at %s", startTime)
	}
	return fmt.Sprintf("%s at %s", startedAt.Format("Mon Jan 2"), startTime)
}
