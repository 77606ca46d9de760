package stats

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/xolan/tally/internal/model"
)

// Weekly status classifications.
const (
	Behind  = "behind"
	Ahead   = "ahead"
	OnTrack = "on track"
)

// Tolerance is the share of the planned weekly hours a project may deviate
// before it counts as behind or ahead.
const Tolerance = 0.1

const week = 7 * 24 * time.Hour

// Comparison is the actual and target hours of one project.
type Comparison struct {
	Actual float64
	Target float64
}

// Reached reports whether a positive target has been met.
func (c Comparison) Reached() bool {
	return c.Target > 0 && c.Actual >= c.Target
}

// ActualVsTarget compares worked hours with targets, keyed by project ID,
// over the union of projects in records and targets. Records without a
// project count towards ID 0; projects without a target get 0.
func ActualVsTarget(records []Record, targets map[int64]float64) map[int64]Comparison {
	out := make(map[int64]Comparison)
	for _, r := range records {
		id := r.ProjectRef().ID
		c := out[id]
		c.Actual += r.Hours
		out[id] = c
	}
	for id, target := range targets {
		c := out[id]
		c.Target = target
		out[id] = c
	}
	return out
}

// Projects returns the keys of a comparison map in ascending order.
func Projects(m map[int64]Comparison) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Status is the outcome of the weekly progress check of one project.
type Status struct {
	ProjectID      int64
	Project        string
	WeeksTotal     float64
	PlannedPerWeek float64
	WeeksElapsed   float64
	Expected       float64
	Actual         float64
	Deviation      float64
	Classification string
}

// WeeklyStatus compares the hours booked on p up to now with an even plan
// spreading the project's time limit from creation to due date.
func WeeklyStatus(p *model.Project, records []Record, now time.Time) (Status, error) {
	if p.DueDate == nil {
		return Status{}, model.NewValidationError(fmt.Sprintf("project '%s' has no due date", p.Name))
	}

	s := Status{ProjectID: p.ID, Project: p.Name}
	s.WeeksTotal = math.Max(float64(p.DueDate.Sub(p.CreatedAt))/float64(week), 1)
	s.PlannedPerWeek = p.TimeLimitHours / s.WeeksTotal
	s.WeeksElapsed = math.Min(math.Max(float64(now.Sub(p.CreatedAt))/float64(week), 0), s.WeeksTotal)
	s.Expected = s.PlannedPerWeek * s.WeeksElapsed

	for _, r := range records {
		if r.ProjectID == nil || *r.ProjectID != p.ID || r.End == nil || r.End.After(now) {
			continue
		}
		s.Actual += r.Hours
	}
	s.Deviation = s.Actual - s.Expected

	switch margin := Tolerance * s.PlannedPerWeek; {
	case s.Deviation < -margin:
		s.Classification = Behind
	case s.Deviation > margin:
		s.Classification = Ahead
	default:
		s.Classification = OnTrack
	}
	return s, nil
}

// Message renders the status for a progress notification.
func (s Status) Message() string {
	switch s.Classification {
	case Behind:
		return fmt.Sprintf("Project '%s' is behind plan by %.2fh (actual %.2fh, expected %.2fh).",
			s.Project, math.Abs(s.Deviation), s.Actual, s.Expected)
	case Ahead:
		return fmt.Sprintf("Project '%s' is ahead of plan by %.2fh (actual %.2fh, expected %.2fh).",
			s.Project, s.Deviation, s.Actual, s.Expected)
	default:
		return fmt.Sprintf("Project '%s' is on track (deviation %+.2fh, actual %.2fh, expected %.2fh).",
			s.Project, s.Deviation, s.Actual, s.Expected)
	}
}

// ProgressDeviation compares an expected completion ratio with the actual
// OverallProgress of tasks. It returns the actual ratio and whether the gap
// exceeds threshold.
func ProgressDeviation(tasks []TaskInfo, expected, threshold float64) (actual float64, deviates bool) {
	actual = OverallProgress(tasks)
	return actual, math.Abs(expected-actual) > threshold
}
