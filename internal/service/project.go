package service

import (
	"context"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/storage"
)

// ProjectService manages projects and their planning targets.
type ProjectService struct {
	*base
}

// Create adds an active project owned by userID.
func (s *ProjectService) Create(ctx context.Context, userID int64, name string, limitHours float64, due *time.Time) (*model.Project, error) {
	p, err := model.NewProject(name, userID, limitHours, due, s.clock())
	if err != nil {
		return nil, wrap("add project", err)
	}
	if err := s.db.InsertProject(ctx, p); err != nil {
		return nil, wrap("add project", err)
	}
	s.log.Debug("project created", "project", p.ID, "user", userID)
	return p, nil
}

// Get returns a project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	p, err := s.db.GetProject(ctx, id)
	if err != nil {
		return nil, wrap("get project", err)
	}
	return p, nil
}

// List returns the projects owned by userID.
func (s *ProjectService) List(ctx context.Context, userID int64) ([]*model.Project, error) {
	projects, err := s.db.ListProjects(ctx, userID)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	return projects, nil
}

// SetLimit changes the planned hours and, when due is not nil, the due date.
func (s *ProjectService) SetLimit(ctx context.Context, userID, id int64, limitHours float64, due *time.Time) (*model.Project, error) {
	return s.edit(ctx, "set project limit", userID, id, func(p *model.Project) {
		p.TimeLimitHours = limitHours
		if due != nil {
			p.DueDate = due
		}
	})
}

// SetStatus moves the project to active, completed or archived.
func (s *ProjectService) SetStatus(ctx context.Context, userID, id int64, status model.ProjectStatus) (*model.Project, error) {
	return s.edit(ctx, "set project status", userID, id, func(p *model.Project) {
		p.Status = status
	})
}

func (s *ProjectService) edit(ctx context.Context, op string, userID, id int64, change func(*model.Project)) (*model.Project, error) {
	var project *model.Project
	err := s.tx(ctx, op, func(q *storage.Queries) error {
		p, err := q.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if p.OwnerID != userID {
			return newError(KindUnauthorized, "", "project %d belongs to another user", p.ID)
		}
		change(p)
		project = p
		return q.UpdateProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// TaskService manages tasks.
type TaskService struct {
	*base
}

// Create adds a task owned by userID. Only the project owner may add tasks
// to a project.
func (s *TaskService) Create(ctx context.Context, userID int64, title string, projectID *int64, due *time.Time) (*model.Task, error) {
	var task *model.Task
	err := s.tx(ctx, "add task", func(q *storage.Queries) error {
		if projectID != nil {
			if err := ownProject(ctx, q, userID, *projectID); err != nil {
				return err
			}
		}
		t, err := model.NewTask(title, userID, projectID, s.clock())
		if err != nil {
			return err
		}
		t.DueDate = due
		task = t
		return q.InsertTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("task created", "task", task.ID, "user", userID)
	return task, nil
}

// Get returns a task.
func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	t, err := s.db.GetTask(ctx, id)
	if err != nil {
		return nil, wrap("get task", err)
	}
	return t, nil
}

// List returns tasks the user owns or is assigned to, optionally limited to
// one project.
func (s *TaskService) List(ctx context.Context, userID, projectID int64) ([]*model.Task, error) {
	tasks, err := s.db.ListTasks(ctx, storage.TaskFilter{UserID: userID, ProjectID: projectID})
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

// SetStatus changes the task status. Owner and assignee may do this.
func (s *TaskService) SetStatus(ctx context.Context, userID, id int64, status model.TaskStatus) (*model.Task, error) {
	var task *model.Task
	err := s.tx(ctx, "set task status", func(q *storage.Queries) error {
		t, err := q.GetTask(ctx, id)
		if err != nil {
			return err
		}
		assignee := t.AssigneeID != nil && *t.AssigneeID == userID
		if t.OwnerID != userID && !assignee {
			return newError(KindUnauthorized, "", "task %d is neither owned by nor assigned to user %d", t.ID, userID)
		}
		t.Status = status
		task = t
		return q.UpdateTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Assign sets or clears the task's assignee. Only the owner may do this.
func (s *TaskService) Assign(ctx context.Context, userID, id int64, assignee *int64) (*model.Task, error) {
	var task *model.Task
	err := s.tx(ctx, "assign task", func(q *storage.Queries) error {
		t, err := ownTask(ctx, q, userID, id)
		if err != nil {
			return err
		}
		t.AssigneeID = assignee
		task = t
		return q.UpdateTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Move puts the task into another project, or makes it standalone when
// projectID is nil. Both projects' hours are recomputed.
func (s *TaskService) Move(ctx context.Context, userID, id int64, projectID *int64) (*model.Task, error) {
	var task *model.Task
	err := s.tx(ctx, "move task", func(q *storage.Queries) error {
		t, err := ownTask(ctx, q, userID, id)
		if err != nil {
			return err
		}
		if projectID != nil {
			if err := ownProject(ctx, q, userID, *projectID); err != nil {
				return err
			}
		}

		var previous []int64
		if t.ProjectID != nil {
			previous = append(previous, *t.ProjectID)
		}
		t.ProjectID = projectID
		if err := q.UpdateTask(ctx, t); err != nil {
			return err
		}
		task = t
		return rollup(ctx, q, []int64{t.ID}, previous...)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("task moved", "task", id, "project", projectID)
	return task, nil
}

func ownTask(ctx context.Context, q *storage.Queries, userID, id int64) (*model.Task, error) {
	t, err := q.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != userID {
		return nil, newError(KindUnauthorized, "", "task %d belongs to another user", t.ID)
	}
	return t, nil
}

func ownProject(ctx context.Context, q *storage.Queries, userID, id int64) error {
	p, err := q.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != userID {
		return newError(KindUnauthorized, "", "project %d belongs to another user", p.ID)
	}
	if !p.IsActive() {
		return newError(KindInvalidState, "", "project %d is %s", p.ID, p.Status)
	}
	return nil
}
