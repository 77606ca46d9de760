package stats

import (
	"time"

	"github.com/xolan/tally/internal/model"
)

// ProjectProgress is the completion ratio of one project's tasks.
type ProjectProgress struct {
	Name  string
	Ratio float64
}

// ProgressPerProject returns the done/total ratio per project ID. Standalone
// tasks are ignored. Projects listed in projects that have no tasks are
// reported with 0.
func ProgressPerProject(tasks []TaskInfo, projects ...ProjectRef) map[int64]ProjectProgress {
	done := make(map[int64]int)
	total := make(map[int64]int)
	out := make(map[int64]ProjectProgress, len(projects))
	for _, p := range projects {
		out[p.ID] = ProjectProgress{Name: p.Name}
	}
	for _, t := range tasks {
		if t.ProjectID == nil {
			continue
		}
		id := *t.ProjectID
		if _, ok := out[id]; !ok {
			out[id] = ProjectProgress{Name: t.Project}
		}
		total[id]++
		if t.Done() {
			done[id]++
		}
	}
	for id, n := range total {
		p := out[id]
		p.Ratio = float64(done[id]) / float64(n)
		out[id] = p
	}
	return out
}

// OverallProgress returns the done/total ratio over tasks whose project is
// active, or 0 when no task qualifies.
func OverallProgress(tasks []TaskInfo) float64 {
	var done, total int
	for _, t := range tasks {
		if t.ProjectID == nil || t.ProjectStatus != model.ProjectActive {
			continue
		}
		total++
		if t.Done() {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// FilterByMonth keeps tasks whose relevant date falls in year/month.
func FilterByMonth(tasks []TaskInfo, year int, month time.Month) []TaskInfo {
	var out []TaskInfo
	for _, t := range tasks {
		d := t.RelevantDate()
		if d.Year() == year && d.Month() == month {
			out = append(out, t)
		}
	}
	return out
}
