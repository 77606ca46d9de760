package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/storage"
)

// EntryService runs the start/pause/resume/stop lifecycle of time entries
// and the manual logging, editing and deletion paths. Every mutation and
// the rollup it triggers commit in one transaction.
type EntryService struct {
	*base
}

// ManualEntry describes retroactively logged work. A zero TaskID books the
// time on a new untitled task.
type ManualEntry struct {
	TaskID   int64
	Start    *time.Time
	End      *time.Time
	Duration *time.Duration
	Comment  string
}

// EntryUpdate lists the fields to change. Nil fields are left alone.
type EntryUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *time.Duration
	Comment   *string
	TaskID    *int64
}

func (u EntryUpdate) empty() bool {
	return u.StartTime == nil && u.EndTime == nil && u.Duration == nil && u.Comment == nil && u.TaskID == nil
}

func (u EntryUpdate) timing() bool {
	return u.StartTime != nil || u.EndTime != nil || u.Duration != nil
}

// EntryFilter narrows List. Zero values mean "any".
type EntryFilter struct {
	TaskID    int64
	ProjectID int64
	From      time.Time
	To        time.Time
}

// DeleteResult reports what Delete removed.
type DeleteResult struct {
	Entry       *model.TimeEntry
	TaskDeleted bool
}

// Start begins a running entry for (task, user). It fails with ErrConflict
// when that pair already has a running or paused entry.
func (s *EntryService) Start(ctx context.Context, userID, taskID int64, comment string) (*model.TimeEntry, error) {
	now := s.clock()
	var entry *model.TimeEntry

	err := s.tx(ctx, "start", func(q *storage.Queries) error {
		task, err := s.trackableTask(ctx, q, userID, taskID, now)
		if err != nil {
			return err
		}

		open, err := q.OpenEntryFor(ctx, task.ID, userID)
		switch {
		case err == nil:
			return newError(KindConflict, "", "entry %d is already open for task %d", open.ID, task.ID)
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		entry = &model.TimeEntry{
			UserID:     userID,
			TaskID:     task.ID,
			StartTime:  &now,
			FirstStart: &now,
			Comment:    strings.TrimSpace(comment),
			CreatedAt:  now,
		}
		if err := q.InsertEntry(ctx, entry); err != nil {
			if errors.Is(err, storage.ErrOpenEntryExists) {
				return &Error{Kind: KindConflict, Msg: "another entry was started concurrently", Err: err}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry started", "entry", entry.ID, "task", entry.TaskID, "user", userID)
	return entry, nil
}

// Pause folds the running segment into the entry's duration.
func (s *EntryService) Pause(ctx context.Context, userID, entryID int64) (*model.TimeEntry, error) {
	now := s.clock()
	var entry *model.TimeEntry

	err := s.tx(ctx, "pause", func(q *storage.Queries) error {
		e, err := ownedEntry(ctx, q, userID, entryID)
		if err != nil {
			return err
		}
		switch e.State() {
		case model.StateStopped:
			return newError(KindInvalidState, "", "entry %d is stopped", e.ID)
		case model.StatePaused:
			return newError(KindInvalidState, "", "entry %d is already paused", e.ID)
		}

		e.DurationSeconds += foldSeconds(*e.StartTime, now)
		e.StartTime = nil
		if err := q.UpdateEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		return rollup(ctx, q, []int64{e.TaskID})
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry paused", "entry", entry.ID, "duration", entry.DurationSeconds)
	return entry, nil
}

// Resume starts a new running segment of a paused entry.
func (s *EntryService) Resume(ctx context.Context, userID, entryID int64) (*model.TimeEntry, error) {
	now := s.clock()
	var entry *model.TimeEntry

	err := s.tx(ctx, "resume", func(q *storage.Queries) error {
		e, err := ownedEntry(ctx, q, userID, entryID)
		if err != nil {
			return err
		}
		switch e.State() {
		case model.StateStopped:
			return newError(KindInvalidState, "", "entry %d is stopped", e.ID)
		case model.StateRunning:
			return newError(KindInvalidState, "", "entry %d is already running", e.ID)
		}

		e.StartTime = &now
		if e.FirstStart == nil {
			e.FirstStart = &now
		}
		entry = e
		return q.UpdateEntry(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry resumed", "entry", entry.ID)
	return entry, nil
}

// Stop makes the entry terminal. A running entry folds its last segment; a
// paused entry keeps the duration accumulated so far.
func (s *EntryService) Stop(ctx context.Context, userID, entryID int64) (*model.TimeEntry, error) {
	now := s.clock()
	var entry *model.TimeEntry

	err := s.tx(ctx, "stop", func(q *storage.Queries) error {
		e, err := ownedEntry(ctx, q, userID, entryID)
		if err != nil {
			return err
		}
		if e.IsTerminal() {
			return newError(KindInvalidState, "", "entry %d is already stopped", e.ID)
		}

		if e.StartTime != nil {
			e.DurationSeconds += foldSeconds(*e.StartTime, now)
			e.StartTime = nil
		}
		e.EndTime = &now
		if err := q.UpdateEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		return rollup(ctx, q, []int64{e.TaskID})
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry stopped", "entry", entry.ID, "duration", entry.DurationSeconds)
	return entry, nil
}

// CreateManual logs finished work. Without a duration it is derived from
// start and end; without an end the entry ends at start+duration, or now
// when no start was given either.
func (s *EntryService) CreateManual(ctx context.Context, userID int64, m ManualEntry) (*model.TimeEntry, error) {
	now := s.clock()

	seconds, err := manualSeconds(m)
	if err != nil {
		return nil, wrap("log entry", err)
	}
	end := now
	switch {
	case m.End != nil:
		end = *m.End
	case m.Start != nil:
		end = m.Start.Add(time.Duration(seconds) * time.Second)
	}
	first := end.Add(-time.Duration(seconds) * time.Second)
	if m.Start != nil {
		first = *m.Start
	}

	var entry *model.TimeEntry
	err = s.tx(ctx, "log entry", func(q *storage.Queries) error {
		task, err := s.trackableTask(ctx, q, userID, m.TaskID, now)
		if err != nil {
			return err
		}
		entry = &model.TimeEntry{
			UserID:          userID,
			TaskID:          task.ID,
			StartTime:       &first,
			EndTime:         &end,
			DurationSeconds: seconds,
			Comment:         strings.TrimSpace(m.Comment),
			FirstStart:      &first,
			CreatedAt:       now,
		}
		if err := q.InsertEntry(ctx, entry); err != nil {
			return err
		}
		return rollup(ctx, q, []int64{task.ID})
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry logged", "entry", entry.ID, "task", entry.TaskID, "duration", entry.DurationSeconds)
	return entry, nil
}

func manualSeconds(m ManualEntry) (int64, error) {
	if m.Start != nil && m.End != nil && m.End.Before(*m.Start) {
		return 0, model.NewValidationError("end time cannot be before start time")
	}
	if m.Duration != nil {
		if *m.Duration < 0 {
			return 0, model.NewValidationError("duration cannot be negative")
		}
		if m.Start != nil && m.End != nil && *m.Duration > m.End.Sub(*m.Start) {
			return 0, model.NewValidationError("duration is longer than the interval between start and end")
		}
		return int64(*m.Duration / time.Second), nil
	}
	if m.Start == nil || m.End == nil {
		return 0, model.NewValidationError("give a duration, or both a start and an end time")
	}
	return int64(m.End.Sub(*m.Start) / time.Second), nil
}

// Update edits an entry. Timing fields may only change on stopped entries;
// when start or end change without a duration, the duration becomes the new
// interval. Moving to another task recomputes both tasks and projects, and
// drops the old task when tracking created it and it is left empty.
func (s *EntryService) Update(ctx context.Context, userID, entryID int64, u EntryUpdate) (*model.TimeEntry, error) {
	if u.empty() {
		return nil, newError(KindValidation, "edit", "at least one change must be specified")
	}
	now := s.clock()
	var entry *model.TimeEntry

	err := s.tx(ctx, "edit", func(q *storage.Queries) error {
		e, err := ownedEntry(ctx, q, userID, entryID)
		if err != nil {
			return err
		}
		oldTask := e.TaskID

		if u.timing() {
			if !e.IsTerminal() {
				return newError(KindInvalidState, "", "entry %d is %s; stop it before changing its times", e.ID, e.State())
			}
			if err := applyTiming(e, u); err != nil {
				return err
			}
		}
		if u.Comment != nil {
			e.Comment = strings.TrimSpace(*u.Comment)
		}
		if u.TaskID != nil && *u.TaskID != e.TaskID {
			task, err := s.trackableTask(ctx, q, userID, *u.TaskID, now)
			if err != nil {
				return err
			}
			if !e.IsTerminal() {
				open, err := q.OpenEntryFor(ctx, task.ID, userID)
				switch {
				case err == nil:
					return newError(KindConflict, "", "entry %d is already open for task %d", open.ID, task.ID)
				case !errors.Is(err, storage.ErrNotFound):
					return err
				}
			}
			e.TaskID = task.ID
		}

		if err := q.UpdateEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		if oldTask == e.TaskID {
			return rollup(ctx, q, []int64{e.TaskID})
		}

		prev, err := q.GetTask(ctx, oldTask)
		if err != nil {
			return err
		}
		dropped, err := dropTrackingTask(ctx, q, prev)
		if err != nil {
			return err
		}
		if !dropped {
			return rollup(ctx, q, []int64{oldTask, e.TaskID})
		}
		var left []int64
		if prev.ProjectID != nil {
			left = append(left, *prev.ProjectID)
		}
		return rollup(ctx, q, []int64{e.TaskID}, left...)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry updated", "entry", entry.ID)
	return entry, nil
}

func applyTiming(e *model.TimeEntry, u EntryUpdate) error {
	start := e.ReportStart()
	end := *e.EndTime
	if u.StartTime != nil {
		start = *u.StartTime
	}
	if u.EndTime != nil {
		end = *u.EndTime
	}
	if end.Before(start) {
		return model.NewValidationError("end time cannot be before start time")
	}

	span := end.Sub(start)
	seconds := e.DurationSeconds
	switch {
	case u.Duration != nil:
		if *u.Duration < 0 {
			return model.NewValidationError("duration cannot be negative")
		}
		if *u.Duration > span {
			return model.NewValidationError("duration is longer than the interval between start and end")
		}
		seconds = int64(*u.Duration / time.Second)
	case u.StartTime != nil || u.EndTime != nil:
		seconds = int64(span / time.Second)
	}

	e.FirstStart = &start
	if e.StartTime != nil {
		e.StartTime = &start
	}
	e.EndTime = &end
	e.DurationSeconds = seconds
	return nil
}

// Delete removes an entry. A task that only existed to hold tracked time is
// removed with its last entry.
func (s *EntryService) Delete(ctx context.Context, userID, entryID int64) (*DeleteResult, error) {
	var res DeleteResult

	err := s.tx(ctx, "delete", func(q *storage.Queries) error {
		e, err := ownedEntry(ctx, q, userID, entryID)
		if err != nil {
			return err
		}
		task, err := q.GetTask(ctx, e.TaskID)
		if err != nil {
			return err
		}
		if err := q.DeleteEntry(ctx, e.ID); err != nil {
			return err
		}
		res.Entry = e

		if res.TaskDeleted, err = dropTrackingTask(ctx, q, task); err != nil {
			return err
		}
		if !res.TaskDeleted {
			return rollup(ctx, q, []int64{task.ID})
		}
		if task.ProjectID != nil {
			return recomputeProjectDuration(ctx, q, *task.ProjectID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("entry deleted", "entry", entryID, "task_deleted", res.TaskDeleted)
	return &res, nil
}

// dropTrackingTask deletes a task created by tracking once it has no entries
// left and reports whether it did.
func dropTrackingTask(ctx context.Context, q *storage.Queries, task *model.Task) (bool, error) {
	if !task.CreatedFromTracking {
		return false, nil
	}
	remaining, err := q.CountEntriesForTask(ctx, task.ID)
	if err != nil || remaining > 0 {
		return false, err
	}
	return true, q.DeleteTask(ctx, task.ID)
}

// Get returns one of the user's entries.
func (s *EntryService) Get(ctx context.Context, userID, entryID int64) (*model.TimeEntry, error) {
	e, err := ownedEntry(ctx, s.db.Queries, userID, entryID)
	if err != nil {
		return nil, wrap("get entry", err)
	}
	return e, nil
}

// List returns the user's entries matching f, oldest first.
func (s *EntryService) List(ctx context.Context, userID int64, f EntryFilter) ([]storage.EntryDetail, error) {
	entries, err := s.db.ListEntries(ctx, storage.EntryFilter{
		UserID:    userID,
		TaskID:    f.TaskID,
		ProjectID: f.ProjectID,
		From:      f.From,
		To:        f.To,
	})
	if err != nil {
		return nil, wrap("list entries", err)
	}
	return entries, nil
}

// Active returns the user's running and paused entries.
func (s *EntryService) Active(ctx context.Context, userID int64) ([]storage.EntryDetail, error) {
	entries, err := s.db.OpenEntries(ctx, userID)
	if err != nil {
		return nil, wrap("list open entries", err)
	}
	return entries, nil
}

// SoleActive returns the user's only open entry. It fails with ErrNotFound
// when there is none and ErrValidation when there are several.
func (s *EntryService) SoleActive(ctx context.Context, userID int64) (*storage.EntryDetail, error) {
	entries, err := s.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, newError(KindNotFound, "", "no running or paused entries")
	case 1:
		return &entries[0], nil
	default:
		return nil, newError(KindValidation, "", "%d entries are open; pass an entry id", len(entries))
	}
}

// Now returns the service clock, for live elapsed times.
func (s *EntryService) Now() time.Time {
	return s.clock()
}

// trackableTask loads the task the user wants to book time on, checking
// the authorizer. taskID 0 creates an untitled task owned by the user.
func (s *EntryService) trackableTask(ctx context.Context, q *storage.Queries, userID, taskID int64, now time.Time) (*model.Task, error) {
	if taskID == 0 {
		task, err := model.NewTask(model.UntitledTask, userID, nil, now)
		if err != nil {
			return nil, err
		}
		task.CreatedFromTracking = true
		if err := q.InsertTask(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	}

	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	var project *model.Project
	if task.ProjectID != nil {
		if project, err = q.GetProject(ctx, *task.ProjectID); err != nil {
			return nil, err
		}
	}
	if !s.auth.CanTrack(ctx, userID, task, project) {
		return nil, newError(KindUnauthorized, "", "user %d may not track time on task %d", userID, task.ID)
	}
	return task, nil
}

// ownedEntry loads an entry and checks that userID owns it.
func ownedEntry(ctx context.Context, q *storage.Queries, userID, entryID int64) (*model.TimeEntry, error) {
	e, err := q.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, newError(KindUnauthorized, "", "entry %d belongs to another user", e.ID)
	}
	return e, nil
}

// foldSeconds is the whole seconds from start to now, never negative.
func foldSeconds(start, now time.Time) int64 {
	if now.Before(start) {
		return 0
	}
	return int64(now.Sub(start) / time.Second)
}
