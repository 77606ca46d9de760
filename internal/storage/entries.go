package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/tally/internal/model"
)

// EntryFilter narrows ListEntries. Zero values mean "any".
type EntryFilter struct {
	UserID    int64
	TaskID    int64
	ProjectID int64
	// From and To bound the entry's first start, inclusive.
	From time.Time
	To   time.Time
	// OpenOnly keeps running and paused entries.
	OpenOnly bool
}

// EntryDetail is an entry joined with its task and project names.
type EntryDetail struct {
	model.TimeEntry
	TaskTitle   string
	ProjectID   *int64
	ProjectName string
}

const entryColumns = `e.id, e.user_id, e.task_id, e.start_time, e.end_time, e.duration_seconds,
	e.comment, e.first_start, e.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, extra ...any) (*model.TimeEntry, error) {
	var (
		e                 model.TimeEntry
		start, end, first sql.NullString
		created           string
	)
	dest := append([]any{&e.ID, &e.UserID, &e.TaskID, &start, &end, &e.DurationSeconds,
		&e.Comment, &first, &created}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if e.StartTime, err = decodeTimePtr(start); err != nil {
		return nil, err
	}
	if e.EndTime, err = decodeTimePtr(end); err != nil {
		return nil, err
	}
	if e.FirstStart, err = decodeTimePtr(first); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertEntry stores e and assigns its ID.
func (q *Queries) InsertEntry(ctx context.Context, e *model.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO time_entries (user_id, task_id, start_time, end_time, duration_seconds, comment, first_start, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.TaskID, encodeTimePtr(e.StartTime), encodeTimePtr(e.EndTime), e.DurationSeconds,
		e.Comment, encodeTimePtr(e.FirstStart), encodeTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get time entry id: %w", err)
	}
	e.ID = id
	return nil
}

// GetEntry loads one entry.
func (q *Queries) GetEntry(ctx context.Context, id int64) (*model.TimeEntry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries e WHERE e.id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("time entry %d: %w", id, mapError(err))
	}
	return e, nil
}

// UpdateEntry writes every mutable column of e.
func (q *Queries) UpdateEntry(ctx context.Context, e *model.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx, `
		UPDATE time_entries
		SET task_id = ?, start_time = ?, end_time = ?, duration_seconds = ?, comment = ?, first_start = ?
		WHERE id = ?`,
		e.TaskID, encodeTimePtr(e.StartTime), encodeTimePtr(e.EndTime), e.DurationSeconds,
		e.Comment, encodeTimePtr(e.FirstStart), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update time entry %d: %w", e.ID, mapError(err))
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("time entry %d: %w", e.ID, err)
	}
	return nil
}

// DeleteEntry removes one entry.
func (q *Queries) DeleteEntry(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("time entry %d: %w", id, err)
	}
	return nil
}

// OpenEntryFor returns the running or paused entry for (task, user), or
// ErrNotFound.
func (q *Queries) OpenEntryFor(ctx context.Context, taskID, userID int64) (*model.TimeEntry, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM time_entries e
		WHERE e.task_id = ? AND e.user_id = ? AND e.end_time IS NULL`, taskID, userID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// CountEntriesForTask counts the task's entries.
func (q *Queries) CountEntriesForTask(ctx context.Context, taskID int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_entries WHERE task_id = ?`, taskID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries of task %d: %w", taskID, err)
	}
	return n, nil
}

// SumEntryDurations sums the folded durations of the task's entries.
func (q *Queries) SumEntryDurations(ctx context.Context, taskID int64) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM time_entries WHERE task_id = ?`, taskID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum durations of task %d: %w", taskID, err)
	}
	return total, nil
}

// ListEntries returns entries matching f, oldest first.
func (q *Queries) ListEntries(ctx context.Context, f EntryFilter) ([]EntryDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "e.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.TaskID != 0 {
		where = append(where, "e.task_id = ?")
		args = append(args, f.TaskID)
	}
	if f.ProjectID != 0 {
		where = append(where, "t.project_id = ?")
		args = append(args, f.ProjectID)
	}
	if !f.From.IsZero() {
		where = append(where, "COALESCE(e.first_start, e.created_at) >= ?")
		args = append(args, encodeTime(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "COALESCE(e.first_start, e.created_at) <= ?")
		args = append(args, encodeTime(f.To))
	}
	if f.OpenOnly {
		where = append(where, "e.end_time IS NULL")
	}

	query := `SELECT ` + entryColumns + `, t.title, t.project_id, COALESCE(p.name, '')
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		LEFT JOIN projects p ON p.id = t.project_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY COALESCE(e.first_start, e.created_at), e.id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []EntryDetail
	for rows.Next() {
		var (
			d         EntryDetail
			projectID sql.NullInt64
		)
		e, err := scanEntry(rows, &d.TaskTitle, &projectID, &d.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		d.TimeEntry = *e
		d.ProjectID = intPtr(projectID)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return out, nil
}

// OpenEntries returns the user's running and paused entries.
func (q *Queries) OpenEntries(ctx context.Context, userID int64) ([]EntryDetail, error) {
	return q.ListEntries(ctx, EntryFilter{UserID: userID, OpenOnly: true})
}
