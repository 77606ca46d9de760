package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/service"
)

// CheckProgress runs the weekly status check for projectID, or for every
// active project of the user with a due date when projectID is 0, followed
// by the weekly goal check.
func CheckProgress(ctx context.Context, deps *cli.Deps, projectID int64) {
	var results []service.WeeklyResult
	if projectID != 0 {
		res, err := deps.Services.Notify.CheckWeeklyStatus(ctx, deps.User, projectID)
		if err != nil {
			deps.Fail("Failed to check project status", err, "Set a due date with 'tally project limit <id> <hours> --due <date>'")
			return
		}
		results = append(results, *res)
	} else {
		var err error
		if results, err = deps.Services.Notify.CheckAllWeekly(ctx, deps.User); err != nil {
			deps.Fail("Failed to check project status", err, "")
			return
		}
	}

	goals, err := deps.Services.Notify.CheckGoals(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to check weekly goals", err, "")
		return
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No active projects with a due date")
	}
	for _, r := range results {
		s := r.Status
		_, _ = fmt.Fprintf(deps.Stdout, "%s: %s\n", s.Project, s.Classification)
		_, _ = fmt.Fprintf(deps.Stdout, "  Planned: %s/week over %.1f weeks\n", cli.FormatHours(s.PlannedPerWeek), s.WeeksTotal)
		_, _ = fmt.Fprintf(deps.Stdout, "  Expected: %s  Actual: %s  Deviation: %+.2fh\n",
			cli.FormatHours(s.Expected), cli.FormatHours(s.Actual), s.Deviation)
		if r.Notification != nil {
			_, _ = fmt.Fprintf(deps.Stdout, "  Notified: %s\n", r.Notification.Message)
		}
	}
	for _, n := range goals {
		_, _ = fmt.Fprintf(deps.Stdout, "Notified: %s\n", n.Message)
	}
}

// CheckDeviation compares expected progress with the actual completion of
// the user's tasks.
func CheckDeviation(ctx context.Context, deps *cli.Deps, expected, threshold float64) {
	tasks, err := deps.Services.Report.TaskInfos(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to load tasks", err, "")
		return
	}
	res, err := deps.Services.Notify.CheckProgressDeviation(ctx, deps.User, tasks, expected, threshold)
	if err != nil {
		deps.Fail("Failed to check progress deviation", err, "Pass --expected and --threshold as ratios between 0 and 1, e.g. 0.5")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Expected: %s  Actual: %s  Threshold: %s\n",
		cli.FormatPercent(res.Expected), cli.FormatPercent(res.Actual), cli.FormatPercent(res.Threshold))
	switch {
	case !res.Deviates:
		_, _ = fmt.Fprintln(deps.Stdout, "Progress is within the threshold")
	case res.Notification != nil:
		_, _ = fmt.Fprintf(deps.Stdout, "Notified: %s\n", res.Notification.Message)
	default:
		_, _ = fmt.Fprintln(deps.Stdout, "Progress deviates (already notified this week)")
	}
}

// ListNotifications prints the user's notifications, newest first.
func ListNotifications(ctx context.Context, deps *cli.Deps, unreadOnly bool) {
	notes, err := deps.Services.Notify.List(ctx, deps.User, unreadOnly)
	if err != nil {
		deps.Fail("Failed to list notifications", err, "")
		return
	}
	if len(notes) == 0 {
		if unreadOnly {
			_, _ = fmt.Fprintln(deps.Stdout, "No unread notifications")
		} else {
			_, _ = fmt.Fprintln(deps.Stdout, "No notifications")
		}
		return
	}

	now := deps.Services.Entry.Now()
	for _, n := range notes {
		_, _ = fmt.Fprintln(deps.Stdout, formatNotification(n, now.Location()))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "%d %s\n", len(notes), cli.Pluralize("notification", len(notes)))
}

func formatNotification(n *model.Notification, loc *time.Location) string {
	mark := " "
	if !n.Read {
		mark = "*"
	}
	return fmt.Sprintf("%s %s  %-9s %s  (%s)", mark, n.CreatedAt.In(loc).Format("2006-01-02 15:04"), n.Type, n.Message, n.ID)
}

// MarkRead flags a notification as read.
func MarkRead(ctx context.Context, deps *cli.Deps, id string) {
	if err := deps.Services.Notify.MarkRead(ctx, deps.User, id); err != nil {
		deps.Fail("Failed to mark notification as read", err, "List ids with 'tally notifications'")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Marked notification %s as read\n", id)
}
