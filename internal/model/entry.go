package model

import "time"

// EntryState is the lifecycle state of a time entry.
type EntryState string

const (
	StateRunning EntryState = "running"
	StatePaused  EntryState = "paused"
	StateStopped EntryState = "stopped"
)

// TimeEntry is one tracked interval of work, or an accumulated set of
// intervals when the entry was paused and resumed.
//
// While running, StartTime holds the beginning of the current segment and
// the time since then is not yet part of DurationSeconds. A paused entry has
// neither StartTime nor EndTime. Once EndTime is set the entry is terminal.
type TimeEntry struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	TaskID          int64      `json:"task_id"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Comment         string     `json:"comment,omitempty"`
	FirstStart      *time.Time `json:"first_start,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// State derives the lifecycle state from the timestamps.
func (e *TimeEntry) State() EntryState {
	switch {
	case e.EndTime != nil:
		return StateStopped
	case e.StartTime != nil:
		return StateRunning
	default:
		return StatePaused
	}
}

// IsTerminal reports whether the entry has been stopped.
func (e *TimeEntry) IsTerminal() bool {
	return e.EndTime != nil
}

// Elapsed returns the folded duration plus the live segment when running.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	d := time.Duration(e.DurationSeconds) * time.Second
	if e.State() == StateRunning && now.After(*e.StartTime) {
		d += now.Sub(*e.StartTime)
	}
	return d
}

// Hours returns the folded duration in hours.
func (e *TimeEntry) Hours() float64 {
	return float64(e.DurationSeconds) / 3600
}

// ReportStart is the instant used to place the entry into reporting windows.
func (e *TimeEntry) ReportStart() time.Time {
	switch {
	case e.FirstStart != nil:
		return *e.FirstStart
	case e.StartTime != nil:
		return *e.StartTime
	case e.EndTime != nil:
		return e.EndTime.Add(-time.Duration(e.DurationSeconds) * time.Second)
	default:
		return e.CreatedAt
	}
}

// Validate checks the invariants that hold for every persisted entry.
func (e *TimeEntry) Validate() error {
	if e.UserID <= 0 {
		return NewValidationError("user is required")
	}
	if e.TaskID <= 0 {
		return NewValidationError("task is required")
	}
	if e.DurationSeconds < 0 {
		return NewValidationError("duration cannot be negative")
	}
	if e.StartTime != nil && e.EndTime != nil && e.EndTime.Before(*e.StartTime) {
		return NewValidationError("end time cannot be before start time")
	}
	return nil
}
