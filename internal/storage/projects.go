package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xolan/tally/internal/model"
)

const projectColumns = `id, name, owner_id, status, time_limit_hours, current_hours, created_at, due_date`

func scanProject(row rowScanner) (*model.Project, error) {
	var (
		p       model.Project
		status  string
		created string
		due     sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &status, &p.TimeLimitHours, &p.CurrentHours, &created, &due); err != nil {
		return nil, err
	}
	p.Status = model.ProjectStatus(status)

	var err error
	if p.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	if p.DueDate, err = decodeTimePtr(due); err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertProject stores p and assigns its ID.
func (q *Queries) InsertProject(ctx context.Context, p *model.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (name, owner_id, status, time_limit_hours, current_hours, created_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.OwnerID, string(p.Status), p.TimeLimitHours, p.CurrentHours,
		encodeTime(p.CreatedAt), encodeTimePtr(p.DueDate))
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project id: %w", err)
	}
	p.ID = id
	return nil
}

// GetProject loads one project.
func (q *Queries) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("project %d: %w", id, mapError(err))
	}
	return p, nil
}

// UpdateProject writes the user-editable columns of p. CurrentHours is only
// written by SetProjectHours.
func (q *Queries) UpdateProject(ctx context.Context, p *model.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, status = ?, time_limit_hours = ?, due_date = ? WHERE id = ?`,
		p.Name, string(p.Status), p.TimeLimitHours, encodeTimePtr(p.DueDate), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project %d: %w", p.ID, mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("project %d: %w", p.ID, err)
	}
	return nil
}

// ListProjects returns projects ordered by id. ownerID 0 lists all.
func (q *Queries) ListProjects(ctx context.Context, ownerID int64) ([]*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if ownerID != 0 {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out, nil
}

// SetProjectHours stores the derived hours of a project.
func (q *Queries) SetProjectHours(ctx context.Context, id int64, hours float64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE projects SET current_hours = ? WHERE id = ?`, hours, id)
	if err != nil {
		return fmt.Errorf("failed to set hours of project %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("project %d: %w", id, err)
	}
	return nil
}
