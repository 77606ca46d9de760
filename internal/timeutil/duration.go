package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/xolan/tally/internal/model"
)

// durationPattern matches XhYm, Xh, Xm and Xs (e.g. "1h30m", "2h", "45m", "90s").
var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// MaxDuration is the longest duration a single entry may be given.
const MaxDuration = 24 * time.Hour

// ParseDuration parses a duration written as hours, minutes and seconds in
// that order, e.g. "2h", "30m", "1h30m" or "45s". Zero and anything above
// MaxDuration are rejected.
func ParseDuration(input string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(input)
	if input == "" || m == nil {
		return 0, model.NewValidationError(fmt.Sprintf("invalid duration '%s' (use Xh, Xm, XhYm or Xs, e.g., 1h30m)", input))
	}

	var d time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, model.NewValidationError(fmt.Sprintf("invalid duration '%s'", input))
		}
		d += time.Duration(n) * unit
	}

	if d == 0 {
		return 0, model.NewValidationError("duration cannot be zero")
	}
	if d > MaxDuration {
		return 0, model.NewValidationError("duration exceeds the maximum of 24 hours")
	}
	return d, nil
}
