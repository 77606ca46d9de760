// Package stats holds the pure aggregation functions behind reports,
// progress views and the weekly deviation checks. Nothing here touches
// storage; callers project entries and tasks into Records and TaskInfos.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/storage"
	"github.com/xolan/tally/internal/timeutil"
)

// NoProject is the bucket for records and targets without a project.
const NoProject = "(no project)"

// ProjectRef identifies a project bucket. Names are not unique, so buckets
// are told apart by ID; ID 0 is the NoProject bucket.
type ProjectRef struct {
	ID   int64
	Name string
}

// Less orders refs by name, then by ID.
func (p ProjectRef) Less(o ProjectRef) bool {
	if p.Name != o.Name {
		return p.Name < o.Name
	}
	return p.ID < o.ID
}

// Record is one time entry as seen by the aggregations.
type Record struct {
	EntryID   int64
	Start     time.Time
	End       *time.Time
	Hours     float64
	TaskID    int64
	Task      string
	ProjectID *int64
	Project   string
}

// ProjectName returns the record's project or NoProject.
func (r Record) ProjectName() string {
	if r.ProjectID == nil || r.Project == "" {
		return NoProject
	}
	return r.Project
}

// ProjectRef returns the bucket the record belongs to.
func (r Record) ProjectRef() ProjectRef {
	if r.ProjectID == nil {
		return ProjectRef{Name: NoProject}
	}
	return ProjectRef{ID: *r.ProjectID, Name: r.ProjectName()}
}

// FromEntries projects stored entries into records.
func FromEntries(entries []storage.EntryDetail) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			EntryID:   e.ID,
			Start:     e.ReportStart(),
			End:       e.EndTime,
			Hours:     e.Hours(),
			TaskID:    e.TaskID,
			Task:      e.TaskTitle,
			ProjectID: e.ProjectID,
			Project:   e.ProjectName,
		})
	}
	return records
}

// Statistics contains aggregated statistics for a set of records
type Statistics struct {
	TotalHours         float64
	AverageHoursPerDay float64
	EntryCount         int
	DaysWithEntries    int
}

// ProjectTotal contains the hours booked on a single project
type ProjectTotal struct {
	ProjectID  int64
	Project    string
	Hours      float64
	EntryCount int
}

// CalculateStatistics computes statistics for records starting within
// [start, end]. The daily average spreads the total over every calendar day
// of the range.
func CalculateStatistics(records []Record, start, end time.Time) Statistics {
	var stats Statistics

	days := make(map[string]bool)
	for _, r := range records {
		if !timeutil.IsInRange(r.Start, start, end) {
			continue
		}
		stats.TotalHours += r.Hours
		stats.EntryCount++
		days[r.Start.Format(time.DateOnly)] = true
	}
	stats.DaysWithEntries = len(days)

	totalDays := 0
	for d := timeutil.StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		totalDays++
	}
	if totalDays > 0 {
		stats.AverageHoursPerDay = stats.TotalHours / float64(totalDays)
	}
	return stats
}

// ProjectBreakdown sums hours per project, largest first. Ties are ordered
// by name, then ID.
func ProjectBreakdown(records []Record) []ProjectTotal {
	byProject := make(map[int64]*ProjectTotal)
	for _, r := range records {
		ref := r.ProjectRef()
		pt, ok := byProject[ref.ID]
		if !ok {
			pt = &ProjectTotal{ProjectID: ref.ID, Project: ref.Name}
			byProject[ref.ID] = pt
		}
		pt.Hours += r.Hours
		pt.EntryCount++
	}

	out := make([]ProjectTotal, 0, len(byProject))
	for _, pt := range byProject {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return ProjectRef{out[i].ProjectID, out[i].Project}.Less(ProjectRef{out[j].ProjectID, out[j].Project})
	})
	return out
}

// TaskInfo is a task with the project facts progress calculations need.
type TaskInfo struct {
	ID            int64
	Title         string
	Status        model.TaskStatus
	ProjectID     *int64
	Project       string
	ProjectStatus model.ProjectStatus
	DueDate       *time.Time
	CreatedAt     time.Time
}

// NewTaskInfo combines a task with its project, which may be nil.
func NewTaskInfo(t *model.Task, p *model.Project) TaskInfo {
	info := TaskInfo{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		ProjectID: t.ProjectID,
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt,
	}
	if p != nil {
		info.Project = p.Name
		info.ProjectStatus = p.Status
	}
	return info
}

// Done reports whether the task is finished.
func (t TaskInfo) Done() bool {
	return t.Status == model.TaskDone
}

// RelevantDate is the due date when set, otherwise the creation date.
func (t TaskInfo) RelevantDate() time.Time {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return t.CreatedAt
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
