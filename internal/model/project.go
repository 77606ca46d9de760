package model

import (
	"strings"
	"time"
)

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// ParseProjectStatus validates a project status string.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ProjectActive:
		return ProjectActive, nil
	case ProjectCompleted:
		return ProjectCompleted, nil
	case ProjectArchived:
		return ProjectArchived, nil
	}
	return "", NewValidationError("unknown project status '" + s + "' (use active, completed or archived)")
}

// Project groups tasks and carries the planned time budget.
type Project struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	OwnerID        int64         `json:"owner_id"`
	Status         ProjectStatus `json:"status"`
	TimeLimitHours float64       `json:"time_limit_hours"`
	CurrentHours   float64       `json:"current_hours"`
	CreatedAt      time.Time     `json:"created_at"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
}

// NewProject builds a validated active project.
func NewProject(name string, ownerID int64, limitHours float64, due *time.Time, now time.Time) (*Project, error) {
	p := &Project{
		Name:           strings.TrimSpace(name),
		OwnerID:        ownerID,
		Status:         ProjectActive,
		TimeLimitHours: limitHours,
		CreatedAt:      now,
		DueDate:        due,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the project's fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return NewValidationError("project name is required")
	}
	if p.OwnerID <= 0 {
		return NewValidationError("project owner is required")
	}
	if p.TimeLimitHours < 0 {
		return NewValidationError("time limit cannot be negative")
	}
	if _, err := ParseProjectStatus(string(p.Status)); err != nil {
		return err
	}
	if p.DueDate != nil && p.DueDate.Before(p.CreatedAt) {
		return NewValidationError("due date cannot be before the project was created")
	}
	return nil
}

// IsActive reports whether the project counts towards overall progress.
func (p *Project) IsActive() bool {
	return p.Status == ProjectActive
}
