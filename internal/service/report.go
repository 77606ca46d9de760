package service

import (
	"context"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/stats"
	"github.com/xolan/tally/internal/storage"
	"github.com/xolan/tally/internal/timeutil"
)

// ReportService builds the weekly, daily and progress views.
type ReportService struct {
	*base
}

// WeekReport is the aggregated work of one reporting week.
type WeekReport struct {
	Start      time.Time
	End        time.Time
	ByProject  map[stats.ProjectRef]stats.Week
	ByTask     map[stats.ProjectTask]stats.Week
	Days       stats.Week
	Total      float64
	Statistics stats.Statistics
	Breakdown  []stats.ProjectTotal
}

// ProgressReport is the completion ratio of the user's tasks.
type ProgressReport struct {
	PerProject map[int64]stats.ProjectProgress
	Overall    float64
	Tasks      int
}

// Week aggregates the user's finished entries of the week containing day.
func (s *ReportService) Week(ctx context.Context, userID int64, day time.Time) (*WeekReport, error) {
	start, end := timeutil.WeekWindow(day.In(s.loc))
	records, err := s.records(ctx, storage.EntryFilter{UserID: userID, From: start, To: end.Add(-time.Nanosecond)})
	if err != nil {
		return nil, wrap("weekly report", err)
	}

	finished := make([]stats.Record, 0, len(records))
	for _, r := range records {
		if r.End != nil {
			finished = append(finished, r)
		}
	}

	byProject := stats.AggregateByDay(records, start)
	days := stats.DayTotals(byProject)
	return &WeekReport{
		Start:      start,
		End:        end,
		ByProject:  byProject,
		ByTask:     stats.AggregateByDayProjectTask(records, start),
		Days:       days,
		Total:      days.Total(),
		Statistics: stats.CalculateStatistics(finished, start, end.Add(-time.Nanosecond)),
		Breakdown:  stats.ProjectBreakdown(finished),
	}, nil
}

// Daily returns per-day, per-task totals from from to to inclusive.
func (s *ReportService) Daily(ctx context.Context, userID int64, from, to time.Time) ([]stats.DayTotal, error) {
	from, to = timeutil.StartOfDay(from.In(s.loc)), timeutil.EndOfDay(to.In(s.loc))
	records, err := s.records(ctx, storage.EntryFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, wrap("daily report", err)
	}
	return stats.DailyTotals(records, from, to), nil
}

// Today returns the hours the user booked today.
func (s *ReportService) Today(ctx context.Context, userID int64) (float64, error) {
	now := s.clock()
	records, err := s.records(ctx, storage.EntryFilter{UserID: userID, From: timeutil.StartOfDay(now), To: timeutil.EndOfDay(now)})
	if err != nil {
		return 0, wrap("today", err)
	}
	return stats.WorkedToday(records, now), nil
}

// Progress reports per-project and overall completion of the tasks the
// user owns or is assigned to. Projects the user owns without tasks show 0.
func (s *ReportService) Progress(ctx context.Context, userID int64) (*ProgressReport, error) {
	tasks, err := s.TaskInfos(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.db.ListProjects(ctx, userID)
	if err != nil {
		return nil, wrap("progress", err)
	}
	refs := make([]stats.ProjectRef, 0, len(owned))
	for _, p := range owned {
		refs = append(refs, stats.ProjectRef{ID: p.ID, Name: p.Name})
	}

	return &ProgressReport{
		PerProject: stats.ProgressPerProject(tasks, refs...),
		Overall:    stats.OverallProgress(tasks),
		Tasks:      len(tasks),
	}, nil
}

// TaskInfos loads the tasks the user owns or is assigned to together with
// their projects.
func (s *ReportService) TaskInfos(ctx context.Context, userID int64) ([]stats.TaskInfo, error) {
	tasks, err := s.db.ListTasks(ctx, storage.TaskFilter{UserID: userID})
	if err != nil {
		return nil, wrap("load tasks", err)
	}

	projects := make(map[int64]*model.Project)
	infos := make([]stats.TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		var p *model.Project
		if t.ProjectID != nil {
			var ok bool
			if p, ok = projects[*t.ProjectID]; !ok {
				if p, err = s.db.GetProject(ctx, *t.ProjectID); err != nil {
					return nil, wrap("load tasks", err)
				}
				projects[p.ID] = p
			}
		}
		info := stats.NewTaskInfo(t, p)
		info.CreatedAt = info.CreatedAt.In(s.loc)
		if info.DueDate != nil {
			due := info.DueDate.In(s.loc)
			info.DueDate = &due
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Month returns the user's tasks due in, or created in, year/month.
func (s *ReportService) Month(ctx context.Context, userID int64, year int, month time.Month) ([]stats.TaskInfo, error) {
	tasks, err := s.TaskInfos(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.FilterByMonth(tasks, year, month), nil
}

// records loads entries matching f as records in the configured location.
func (b *base) records(ctx context.Context, f storage.EntryFilter) ([]stats.Record, error) {
	entries, err := b.db.ListEntries(ctx, f)
	if err != nil {
		return nil, err
	}
	records := stats.FromEntries(entries)
	for i := range records {
		records[i].Start = records[i].Start.In(b.loc)
		if end := records[i].End; end != nil {
			local := end.In(b.loc)
			records[i].End = &local
		}
	}
	return records, nil
}
