package service

import (
	"context"

	"github.com/xolan/tally/internal/model"
)

// Authorizer decides whether a user may record time against a task.
// project is nil for standalone tasks.
type Authorizer interface {
	CanTrack(ctx context.Context, userID int64, task *model.Task, project *model.Project) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, userID int64, task *model.Task, project *model.Project) bool

// CanTrack calls f.
func (f AuthorizerFunc) CanTrack(ctx context.Context, userID int64, task *model.Task, project *model.Project) bool {
	return f(ctx, userID, task, project)
}

// OwnershipAuthorizer allows the task owner, the task assignee and the
// owner of the task's project.
type OwnershipAuthorizer struct{}

// CanTrack implements Authorizer.
func (OwnershipAuthorizer) CanTrack(_ context.Context, userID int64, task *model.Task, project *model.Project) bool {
	switch {
	case task.OwnerID == userID:
		return true
	case task.AssigneeID != nil && *task.AssigneeID == userID:
		return true
	case project != nil && project.OwnerID == userID:
		return true
	}
	return false
}
