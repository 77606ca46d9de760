package model

import (
	"strings"
	"time"
)

// TaskStatus is the workflow status of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// UntitledTask is the title given to tasks created implicitly by tracking.
const UntitledTask = "Untitled Task"

// ParseTaskStatus accepts the persisted spelling as well as "in-progress".
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return TaskTodo, nil
	case "in_progress", "in-progress":
		return TaskInProgress, nil
	case "done":
		return TaskDone, nil
	}
	return "", NewValidationError("unknown task status '" + s + "' (use todo, in_progress or done)")
}

// Task is a unit of work time is tracked against.
type Task struct {
	ID                   int64      `json:"id"`
	Title                string     `json:"title"`
	ProjectID            *int64     `json:"project_id,omitempty"`
	OwnerID              int64      `json:"owner_id"`
	AssigneeID           *int64     `json:"assignee_id,omitempty"`
	Status               TaskStatus `json:"status"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	CreatedFromTracking  bool       `json:"created_from_tracking"`
	TotalDurationSeconds int64      `json:"total_duration_seconds"`
}

// NewTask builds a validated todo task.
func NewTask(title string, ownerID int64, projectID *int64, now time.Time) (*Task, error) {
	t := &Task{
		Title:     strings.TrimSpace(title),
		ProjectID: projectID,
		OwnerID:   ownerID,
		Status:    TaskTodo,
		CreatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task's fields.
func (t *Task) Validate() error {
	if t.Title == "" {
		return NewValidationError("task title is required")
	}
	if t.OwnerID <= 0 {
		return NewValidationError("task owner is required")
	}
	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}
	if t.TotalDurationSeconds < 0 {
		return NewValidationError("task duration cannot be negative")
	}
	return nil
}

// RelevantDate is the date used for month filtering: the due date when set,
// otherwise the creation date.
func (t *Task) RelevantDate() time.Time {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return t.CreatedAt
}

// InProject reports whether the task belongs to project id.
func (t *Task) InProject(id int64) bool {
	return t.ProjectID != nil && *t.ProjectID == id
}
