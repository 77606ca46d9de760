package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/stats"
	"github.com/xolan/tally/internal/storage"
	"github.com/xolan/tally/internal/timeutil"
)

// NotifyService compares booked hours with plans and records notifications.
// Each kind of notification is created at most once per user, project and
// calendar week; repeated checks within a week are no-ops.
type NotifyService struct {
	*base
	threshold float64
}

// WeeklyResult is the outcome of one weekly status check. Notification is
// nil when this week's notification already existed.
type WeeklyResult struct {
	Status       stats.Status
	Notification *model.Notification
}

// DeviationResult is the outcome of a progress deviation check.
type DeviationResult struct {
	Expected     float64
	Actual       float64
	Threshold    float64
	Deviates     bool
	Notification *model.Notification
}

// Threshold returns the configured default deviation threshold.
func (s *NotifyService) Threshold() float64 {
	return s.threshold
}

// notifyOnce stores a notification unless this week's one already exists.
func (s *NotifyService) notifyOnce(ctx context.Context, q *storage.Queries, userID int64, projectID *int64, typ model.NotificationType, msg string, now time.Time) (*model.Notification, error) {
	n, err := model.NewNotification(userID, projectID, typ, msg, timeutil.StartOfWeek(now), now)
	if err != nil {
		return nil, err
	}
	created, err := q.InsertNotificationOnce(ctx, n)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	s.log.Info("notification created", "user", userID, "type", string(typ), "week", n.WeekStart.Format(time.DateOnly))
	return n, nil
}

// CheckGoals notifies the user about every active project whose planned
// weekly hours were reached this week.
func (s *NotifyService) CheckGoals(ctx context.Context, userID int64) ([]*model.Notification, error) {
	now := s.clock()
	start, end := timeutil.WeekWindow(now)

	records, err := s.records(ctx, storage.EntryFilter{UserID: userID, From: start, To: end.Add(-time.Nanosecond)})
	if err != nil {
		return nil, wrap("check goals", err)
	}

	var created []*model.Notification
	err = s.tx(ctx, "check goals", func(q *storage.Queries) error {
		projects, err := q.ListProjects(ctx, userID)
		if err != nil {
			return err
		}
		targets := make(map[int64]float64)
		byID := make(map[int64]*model.Project)
		for _, p := range projects {
			if !p.IsActive() || p.DueDate == nil {
				continue
			}
			status, err := stats.WeeklyStatus(p, nil, now)
			if err != nil {
				return err
			}
			targets[p.ID] = status.PlannedPerWeek
			byID[p.ID] = p
		}

		comparisons := stats.ActualVsTarget(records, targets)
		for _, id := range stats.Projects(comparisons) {
			p, ok := byID[id]
			if !ok || !comparisons[id].Reached() {
				continue
			}
			msg := fmt.Sprintf("You reached your weekly goal for project '%s'.", p.Name)
			n, err := s.notifyOnce(ctx, q, userID, &p.ID, model.NotifyGoal, msg, now)
			if err != nil {
				return err
			}
			if n != nil {
				created = append(created, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CheckWeeklyStatus classifies the project as behind, ahead or on track and
// records a progress notification for this week. Hours of every user count
// towards the project; only its owner may run the check.
func (s *NotifyService) CheckWeeklyStatus(ctx context.Context, userID, projectID int64) (*WeeklyResult, error) {
	now := s.clock()
	var res WeeklyResult

	err := s.tx(ctx, "weekly status", func(q *storage.Queries) error {
		p, err := q.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if p.OwnerID != userID {
			return newError(KindUnauthorized, "", "project %d belongs to another user", p.ID)
		}
		entries, err := q.ListEntries(ctx, storage.EntryFilter{ProjectID: p.ID})
		if err != nil {
			return err
		}
		if res.Status, err = stats.WeeklyStatus(p, stats.FromEntries(entries), now); err != nil {
			return err
		}
		res.Notification, err = s.notifyOnce(ctx, q, userID, &p.ID, model.NotifyProgress, res.Status.Message(), now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckAllWeekly runs CheckWeeklyStatus for each active project with a due
// date that the user owns. It is meant for a periodic external caller.
func (s *NotifyService) CheckAllWeekly(ctx context.Context, userID int64) ([]WeeklyResult, error) {
	projects, err := s.db.ListProjects(ctx, userID)
	if err != nil {
		return nil, wrap("weekly status", err)
	}
	var results []WeeklyResult
	for _, p := range projects {
		if !p.IsActive() || p.DueDate == nil {
			continue
		}
		res, err := s.CheckWeeklyStatus(ctx, userID, p.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// CheckProgressDeviation compares an expected completion ratio with the
// actual one over tasks and records a deviation notification when they
// differ by more than threshold.
func (s *NotifyService) CheckProgressDeviation(ctx context.Context, userID int64, tasks []stats.TaskInfo, expected, threshold float64) (*DeviationResult, error) {
	if expected < 0 || expected > 1 {
		return nil, newError(KindValidation, "progress deviation", "expected progress must be between 0 and 1")
	}
	if threshold < 0 || threshold > 1 {
		return nil, newError(KindValidation, "progress deviation", "threshold must be between 0 and 1")
	}

	now := s.clock()
	res := DeviationResult{Expected: expected, Threshold: threshold}
	res.Actual, res.Deviates = stats.ProgressDeviation(tasks, expected, threshold)
	if !res.Deviates {
		return &res, nil
	}

	msg := fmt.Sprintf("Overall progress is %.0f%%, expected %.0f%% (deviation %+.0f points).",
		res.Actual*100, expected*100, (res.Actual-expected)*100)
	err := s.tx(ctx, "progress deviation", func(q *storage.Queries) error {
		var err error
		res.Notification, err = s.notifyOnce(ctx, q, userID, nil, model.NotifyDeviation, msg, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns the user's notifications, newest first.
func (s *NotifyService) List(ctx context.Context, userID int64, unreadOnly bool) ([]*model.Notification, error) {
	notes, err := s.db.ListNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, wrap("list notifications", err)
	}
	return notes, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotifyService) MarkRead(ctx context.Context, userID int64, id string) error {
	if err := s.db.MarkNotificationRead(ctx, userID, id); err != nil {
		return wrap("mark notification read", err)
	}
	return nil
}
