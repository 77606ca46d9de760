package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xolan/tally/internal/model"
)

const notificationColumns = `id, user_id, project_id, type, message, week_start, created_at, is_read`

func scanNotification(row rowScanner) (*model.Notification, error) {
	var (
		n                  model.Notification
		projectID          sql.NullInt64
		typ                string
		weekStart, created string
		read               int
	)
	if err := row.Scan(&n.ID, &n.UserID, &projectID, &typ, &n.Message, &weekStart, &created, &read); err != nil {
		return nil, err
	}
	n.ProjectID = intPtr(projectID)
	n.Type = model.NotificationType(typ)
	n.Read = read != 0

	var err error
	if n.WeekStart, err = decodeTime(weekStart); err != nil {
		return nil, err
	}
	if n.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &n, nil
}

// InsertNotificationOnce stores n unless a notification with the same user,
// project, type and week already exists. It reports whether n was stored.
func (q *Queries) InsertNotificationOnce(ctx context.Context, n *model.Notification) (bool, error) {
	if err := n.Validate(); err != nil {
		return false, err
	}
	var projectKey int64
	if n.ProjectID != nil {
		projectKey = *n.ProjectID
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, project_id, project_key, type, message, week_start, created_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, project_key, type, week_start) DO NOTHING`,
		n.ID, n.UserID, nullInt(n.ProjectID), projectKey, string(n.Type), n.Message,
		encodeTime(n.WeekStart), encodeTime(n.CreatedAt), boolInt(n.Read))
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected == 1, nil
}

// ListNotifications returns the user's notifications, newest first.
func (q *Queries) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func (q *Queries) MarkNotificationRead(ctx context.Context, userID int64, id string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("notification %s: %w", id, err)
	}
	return nil
}
