package timeutil

import (
	"fmt"
	"time"

	"github.com/xolan/tally/internal/model"
)

// RangeFlags are the raw --from, --to and --last values of a listing
// command.
type RangeFlags struct {
	From string
	To   string
	Last int
}

// IsZero reports whether no flag was given.
func (f RangeFlags) IsZero() bool {
	return f == RangeFlags{}
}

// Range resolves f to whole days. Last counts days back including today and
// excludes From and To. An empty From leaves start zero (unbounded) and an
// empty To means the end of today.
func (p *Parser) Range(f RangeFlags) (start, end time.Time, err error) {
	switch {
	case f.Last < 0:
		return time.Time{}, time.Time{}, model.NewValidationError(fmt.Sprintf("--last must be positive, got %d", f.Last))
	case f.Last > 0 && (f.From != "" || f.To != ""):
		return time.Time{}, time.Time{}, model.NewValidationError("cannot use --last with --from or --to")
	}

	today := p.Now().In(p.Location)
	if f.Last > 0 {
		return StartOfDay(today.AddDate(0, 0, 1-f.Last)), EndOfDay(today), nil
	}

	end = EndOfDay(today)
	if f.To != "" {
		day, err := p.Date(f.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		end = EndOfDay(day)
	}
	if f.From != "" {
		if start, err = p.Date(f.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, model.NewValidationError(fmt.Sprintf("--from date (%s) is after --to date (%s)",
				start.Format(time.DateOnly), end.Format(time.DateOnly)))
		}
	}
	return start, end, nil
}
