package timeutil

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xolan/tally/internal/model"
)

func TestRangeFlags_IsZero(t *testing.T) {
	if !(RangeFlags{}).IsZero() {
		t.Error("empty flags should be zero")
	}
	if (RangeFlags{Last: 1}).IsZero() {
		t.Error("--last 1 is not zero")
	}
}

func TestParserRange(t *testing.T) {
	now := time.Date(2024, time.March, 6, 15, 0, 0, 0, time.UTC)
	p := fixedParser(now)
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		flags     RangeFlags
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"today", RangeFlags{Last: 1}, day(6), EndOfDay(now)},
		{"week across a leap day", RangeFlags{Last: 7}, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), EndOfDay(now)},
		{"from and to", RangeFlags{From: "2024-03-01", To: "01/03/2024"}, day(1), EndOfDay(day(1))},
		{"from until today", RangeFlags{From: "2024-03-01"}, day(1), EndOfDay(now)},
		{"unbounded start", RangeFlags{To: "2024-03-03"}, time.Time{}, EndOfDay(day(3))},
		{"no flags", RangeFlags{}, time.Time{}, EndOfDay(now)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := p.Range(tt.flags)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestParserRange_Errors(t *testing.T) {
	p := fixedParser(time.Date(2024, time.March, 6, 15, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		flags    RangeFlags
		contains string
	}{
		{"last with from", RangeFlags{From: "2024-03-01", Last: 7}, "cannot use --last"},
		{"negative last", RangeFlags{Last: -2}, "--last must be positive"},
		{"bad from", RangeFlags{From: "yesterday"}, "invalid --from date"},
		{"impossible date", RangeFlags{From: "2025-13-01"}, "invalid --from date"},
		{"bad to", RangeFlags{To: "2024/03/01"}, "invalid --to date"},
		{"from after to", RangeFlags{From: "2024-03-05", To: "2024-03-01"}, "is after --to date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Range(tt.flags)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, expected to contain %q", err.Error(), tt.contains)
			}
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected a validation error, got %T", err)
			}
		})
	}
}
