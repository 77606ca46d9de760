// Package model defines the entities tracked by tally: time entries, tasks,
// projects and notifications.
package model

// ValidationError reports malformed input rejected by a Validate method or a
// parser.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a *ValidationError carrying msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
