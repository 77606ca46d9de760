package stats

import (
	"time"

	"github.com/xolan/tally/internal/timeutil"
)

// Week holds hours per day of a reporting window, Monday first.
type Week [timeutil.DaysPerWeek]float64

// Total sums the week.
func (w Week) Total() float64 {
	var sum float64
	for _, h := range w {
		sum += h
	}
	return sum
}

// ProjectTask keys the per-task weekly breakdown.
type ProjectTask struct {
	Project ProjectRef
	TaskID  int64
	Task    string
}

// AggregateByDay buckets finished records starting in
// [windowStart, windowStart+7d) into per-project weeks. Open records are
// skipped because their duration is not final.
func AggregateByDay(records []Record, windowStart time.Time) map[ProjectRef]Week {
	out := make(map[ProjectRef]Week)
	for _, r := range records {
		day, ok := bucket(r, windowStart)
		if !ok {
			continue
		}
		ref := r.ProjectRef()
		w := out[ref]
		w[day] += r.Hours
		out[ref] = w
	}
	return out
}

// AggregateByDayProjectTask is AggregateByDay keyed by project and task.
func AggregateByDayProjectTask(records []Record, windowStart time.Time) map[ProjectTask]Week {
	out := make(map[ProjectTask]Week)
	for _, r := range records {
		day, ok := bucket(r, windowStart)
		if !ok {
			continue
		}
		key := ProjectTask{Project: r.ProjectRef(), TaskID: r.TaskID, Task: r.Task}
		w := out[key]
		w[day] += r.Hours
		out[key] = w
	}
	return out
}

func bucket(r Record, windowStart time.Time) (int, bool) {
	if r.End == nil {
		return 0, false
	}
	day := timeutil.DayIndex(r.Start, windowStart)
	return day, day >= 0
}

// DayTotals sums a set of weeks per day.
func DayTotals[K comparable](weeks map[K]Week) Week {
	var out Week
	for _, w := range weeks {
		for i, h := range w {
			out[i] += h
		}
	}
	return out
}

// FilterByDateRange keeps records starting within [start, end].
func FilterByDateRange(records []Record, start, end time.Time) []Record {
	var out []Record
	for _, r := range records {
		if timeutil.IsInRange(r.Start, start, end) {
			out = append(out, r)
		}
	}
	return out
}

// WorkedToday sums the folded hours of records starting on now's calendar
// day, rounded to two decimals.
func WorkedToday(records []Record, now time.Time) float64 {
	var sum float64
	for _, r := range FilterByDateRange(records, timeutil.StartOfDay(now), timeutil.EndOfDay(now)) {
		sum += r.Hours
	}
	return Round(sum, 2)
}

// DayTotal is the work of one calendar day, split by task.
type DayTotal struct {
	Day   time.Time
	Tasks map[string]float64
	Total float64
}

// DailyTotals returns one DayTotal per calendar day from from to to,
// inclusive, with finished records assigned by start day.
func DailyTotals(records []Record, from, to time.Time) []DayTotal {
	var days []DayTotal
	for d := timeutil.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		dt := DayTotal{Day: d, Tasks: make(map[string]float64)}
		for _, r := range FilterByDateRange(records, d, timeutil.EndOfDay(d)) {
			if r.End == nil {
				continue
			}
			dt.Tasks[r.Task] += r.Hours
			dt.Total += r.Hours
		}
		days = append(days, dt)
	}
	return days
}
