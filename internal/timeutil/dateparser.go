package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xolan/tally/internal/model"
)

// Accepted input layouts. Anything else is rejected; inputs are never
// guessed.
var (
	// TimestampLayouts are full date-time layouts.
	TimestampLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"02/01/2006 15:04",
	}
	// DateLayouts are date-only layouts, resolved to midnight.
	DateLayouts = []string{
		"2006-01-02",
		"02/01/2006",
	}
	// ClockLayout is a time of day, resolved against the parser's current day.
	ClockLayout = "15:04"
	// MonthLayout selects a calendar month.
	MonthLayout = "2006-01"
)

// Parser turns user supplied strings into times in a fixed location.
type Parser struct {
	Location *time.Location
	Now      func() time.Time
}

// NewParser returns a Parser for loc. A nil loc means time.Local.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{Location: loc, Now: time.Now}
}

// ParseTimestamp parses input with the local-time parser.
func ParseTimestamp(input string) (time.Time, error) {
	return NewParser(time.Local).Timestamp(input)
}

// ParseDate parses a date string in YYYY-MM-DD or DD/MM/YYYY format.
// Returns the parsed date at midnight (start of day) in local timezone.
func ParseDate(input string) (time.Time, error) {
	return NewParser(time.Local).Date(input)
}

// Timestamp accepts any of TimestampLayouts, DateLayouts or ClockLayout.
// Date-only inputs resolve to midnight and clock-only inputs to that time
// today.
func (p *Parser) Timestamp(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, model.NewValidationError("timestamp cannot be empty (use " + strings.Join(acceptedTimestamps(), ", ") + ")")
	}

	for _, layout := range TimestampLayouts {
		if t, err := time.ParseInLocation(layout, input, p.Location); err == nil {
			return t, nil
		}
	}
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, input, p.Location); err == nil {
			return StartOfDay(t), nil
		}
	}
	if clock, err := time.ParseInLocation(ClockLayout, input, p.Location); err == nil {
		day := p.Now().In(p.Location)
		return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, p.Location), nil
	}

	return time.Time{}, model.NewValidationError(fmt.Sprintf("invalid timestamp '%s' (use %s)", input, strings.Join(acceptedTimestamps(), ", ")))
}

// Date accepts only DateLayouts and returns midnight of that day.
func (p *Parser) Date(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, model.NewValidationError("date cannot be empty (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)")
	}

	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, input, p.Location); err == nil {
			return StartOfDay(t), nil
		}
	}

	return time.Time{}, buildDateParseError(input)
}

// Month parses YYYY-MM.
func (p *Parser) Month(input string) (int, time.Month, error) {
	t, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(input), p.Location)
	if err != nil {
		return 0, 0, model.NewValidationError(fmt.Sprintf("invalid month '%s' (use YYYY-MM, e.g., 2024-03)", input))
	}
	return t.Year(), t.Month(), nil
}

func acceptedTimestamps() []string {
	var all []string
	for _, l := range TimestampLayouts {
		if l == time.RFC3339 {
			l = "RFC3339"
		}
		all = append(all, l)
	}
	all = append(all, DateLayouts...)
	return append(all, ClockLayout)
}

var (
	isoPartialRe    = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	yearOnlyRe      = regexp.MustCompile(`^\d{4}$`)
	isoPartialDayRe = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
	euroPartialRe   = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
	tooManyPartsRe  = regexp.MustCompile(`^\d+[-/]\d+[-/]\d+[-/]`)
)

// buildDateParseError creates a helpful error message based on the input pattern
func buildDateParseError(input string) error {
	switch {
	case yearOnlyRe.MatchString(input):
		return model.NewValidationError(fmt.Sprintf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input))
	case isoPartialRe.MatchString(input):
		return model.NewValidationError(fmt.Sprintf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input))
	case isoPartialDayRe.MatchString(input):
		return model.NewValidationError(fmt.Sprintf("incomplete date '%s': missing year (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-%s)", input, input))
	case euroPartialRe.MatchString(input):
		return model.NewValidationError(fmt.Sprintf("incomplete date '%s': missing year (use format DD/MM/YYYY, e.g., %s/2024)", input, input))
	case tooManyPartsRe.MatchString(input):
		return model.NewValidationError(fmt.Sprintf("invalid date '%s': too many date parts (use format YYYY-MM-DD or DD/MM/YYYY)", input))
	default:
		return model.NewValidationError(fmt.Sprintf("invalid date format '%s' (use YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)", input))
	}
}
