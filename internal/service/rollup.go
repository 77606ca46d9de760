package service

import (
	"context"
	"fmt"

	"github.com/xolan/tally/internal/stats"
	"github.com/xolan/tally/internal/storage"
)

// projectHours converts a project's task total to hours with 3 decimals.
func projectHours(totalSeconds int64) float64 {
	return stats.Round(float64(totalSeconds)/3600, 3)
}

// recomputeTaskDuration stores the sum of the task's folded entry durations
// and returns the task's project, if any.
func recomputeTaskDuration(ctx context.Context, q *storage.Queries, taskID int64) (*int64, error) {
	total, err := q.SumEntryDurations(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := q.SetTaskTotal(ctx, taskID, total); err != nil {
		return nil, err
	}
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task.ProjectID, nil
}

// recomputeProjectDuration stores the project's hours from its task totals.
func recomputeProjectDuration(ctx context.Context, q *storage.Queries, projectID int64) error {
	total, err := q.SumTaskTotals(ctx, projectID)
	if err != nil {
		return err
	}
	return q.SetProjectHours(ctx, projectID, projectHours(total))
}

// rollup recomputes each distinct task and then each distinct project they
// belong to. Extra project ids cover projects a task just left.
func rollup(ctx context.Context, q *storage.Queries, taskIDs []int64, projectIDs ...int64) error {
	seenTasks := make(map[int64]bool)
	seenProjects := make(map[int64]bool)
	var projects []int64
	addProject := func(id int64) {
		if !seenProjects[id] {
			seenProjects[id] = true
			projects = append(projects, id)
		}
	}
	for _, id := range projectIDs {
		addProject(id)
	}

	for _, id := range taskIDs {
		if seenTasks[id] {
			continue
		}
		seenTasks[id] = true
		projectID, err := recomputeTaskDuration(ctx, q, id)
		if err != nil {
			return fmt.Errorf("failed to recompute task %d: %w", id, err)
		}
		if projectID != nil {
			addProject(*projectID)
		}
	}

	for _, id := range projects {
		if err := recomputeProjectDuration(ctx, q, id); err != nil {
			return fmt.Errorf("failed to recompute project %d: %w", id, err)
		}
	}
	return nil
}
