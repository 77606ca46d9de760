package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xolan/tally/internal/model"
)

// TaskFilter narrows ListTasks. Zero values mean "any".
type TaskFilter struct {
	// UserID keeps tasks the user owns or is assigned to.
	UserID    int64
	ProjectID int64
	// Standalone keeps tasks without a project.
	Standalone bool
}

const taskColumns = `id, title, project_id, owner_id, assignee_id, status, due_date, created_at,
	created_from_tracking, total_duration_seconds`

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t                   model.Task
		projectID, assignee sql.NullInt64
		due                 sql.NullString
		created             string
		status              string
		fromTracking        int
	)
	if err := row.Scan(&t.ID, &t.Title, &projectID, &t.OwnerID, &assignee, &status, &due, &created,
		&fromTracking, &t.TotalDurationSeconds); err != nil {
		return nil, err
	}
	t.ProjectID = intPtr(projectID)
	t.AssigneeID = intPtr(assignee)
	t.Status = model.TaskStatus(status)
	t.CreatedFromTracking = fromTracking != 0

	var err error
	if t.DueDate, err = decodeTimePtr(due); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertTask stores t and assigns its ID.
func (q *Queries) InsertTask(ctx context.Context, t *model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO tasks (title, project_id, owner_id, assignee_id, status, due_date, created_at,
			created_from_tracking, total_duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, nullInt(t.ProjectID), t.OwnerID, nullInt(t.AssigneeID), string(t.Status),
		encodeTimePtr(t.DueDate), encodeTime(t.CreatedAt), boolInt(t.CreatedFromTracking), t.TotalDurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task id: %w", err)
	}
	t.ID = id
	return nil
}

// GetTask loads one task.
func (q *Queries) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", id, mapError(err))
	}
	return t, nil
}

// UpdateTask writes the user-editable columns of t. The derived total is
// only written by SetTaskTotal.
func (q *Queries) UpdateTask(ctx context.Context, t *model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, project_id = ?, assignee_id = ?, status = ?, due_date = ?
		WHERE id = ?`,
		t.Title, nullInt(t.ProjectID), nullInt(t.AssigneeID), string(t.Status), encodeTimePtr(t.DueDate), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", t.ID, mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("task %d: %w", t.ID, err)
	}
	return nil
}

// DeleteTask removes a task. Its entries are removed by the foreign key cascade.
func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}
	return nil
}

// ListTasks returns tasks matching f ordered by id.
func (q *Queries) ListTasks(ctx context.Context, f TaskFilter) ([]*model.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "(owner_id = ? OR assignee_id = ?)")
		args = append(args, f.UserID, f.UserID)
	}
	if f.ProjectID != 0 {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Standalone {
		where = append(where, "project_id IS NULL")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return out, nil
}

// SetTaskTotal stores the derived total duration of a task.
func (q *Queries) SetTaskTotal(ctx context.Context, id, totalSeconds int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE tasks SET total_duration_seconds = ? WHERE id = ?`, totalSeconds, id)
	if err != nil {
		return fmt.Errorf("failed to set total of task %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}
	return nil
}

// SumTaskTotals sums the derived totals of the project's tasks.
func (q *Queries) SumTaskTotals(ctx context.Context, projectID int64) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_duration_seconds), 0) FROM tasks WHERE project_id = ?`, projectID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum task totals of project %d: %w", projectID, err)
	}
	return total, nil
}
