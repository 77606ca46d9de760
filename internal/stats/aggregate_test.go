package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestAggregateByDayBoundaries(t *testing.T) {
	open := Record{Start: monday.Add(time.Hour), Hours: 1, ProjectID: ptr(int64(1)), Project: "A"}
	records := []Record{
		finished(monday, 1, 1, "A", "t1"),
		finished(monday.Add(-time.Nanosecond), 8, 1, "A", "t1"),
		finished(monday.AddDate(0, 0, 7), 8, 1, "A", "t1"),
		finished(monday.AddDate(0, 0, 7).Add(-time.Second), 2, 1, "A", "t1"),
		finished(monday.AddDate(0, 0, 2).Add(10*time.Hour), 1.5, 2, "B", "t2"),
		finished(monday.AddDate(0, 0, 2).Add(14*time.Hour), 0.5, 0, "", "t3"),
		open,
	}

	got := AggregateByDay(records, monday)
	want := map[ProjectRef]Week{
		{1, "A"}:       {1, 0, 0, 0, 0, 0, 2},
		{2, "B"}:       {0, 0, 1.5, 0, 0, 0, 0},
		{0, NoProject}: {0, 0, 0.5, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("AggregateByDay() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateByDaySameName(t *testing.T) {
	records := []Record{
		finished(monday, 1, 1, "Thesis", "t"),
		finished(monday, 2, 2, "Thesis", "t"),
	}
	got := AggregateByDay(records, monday)
	want := map[ProjectRef]Week{
		{1, "Thesis"}: {1, 0, 0, 0, 0, 0, 0},
		{2, "Thesis"}: {2, 0, 0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("AggregateByDay() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateByDayEmpty(t *testing.T) {
	if got := AggregateByDay(nil, monday); len(got) != 0 {
		t.Errorf("AggregateByDay(nil) = %v, want empty", got)
	}
}

func TestAggregateByDayProjectTask(t *testing.T) {
	records := []Record{
		finished(monday.Add(9*time.Hour), 1, 1, "A", "design"),
		finished(monday.Add(11*time.Hour), 2, 1, "A", "design"),
		finished(monday.AddDate(0, 0, 1), 1, 1, "A", "review"),
		finished(monday.AddDate(0, 0, 4), 3, 0, "", "admin"),
	}
	got := AggregateByDayProjectTask(records, monday)
	want := map[ProjectTask]Week{
		{Project: ProjectRef{1, "A"}, Task: "design"}:      {3, 0, 0, 0, 0, 0, 0},
		{Project: ProjectRef{1, "A"}, Task: "review"}:      {0, 1, 0, 0, 0, 0, 0},
		{Project: ProjectRef{0, NoProject}, Task: "admin"}: {0, 0, 0, 0, 3, 0, 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("AggregateByDayProjectTask() mismatch (-want +got):\n%s", diff)
	}

	totals := DayTotals(got)
	if diff := cmp.Diff(Week{3, 1, 0, 0, 3, 0, 0}, totals, approx); diff != "" {
		t.Errorf("DayTotals() mismatch (-want +got):\n%s", diff)
	}
	if totals.Total() != 7 {
		t.Errorf("Total() = %v, want 7", totals.Total())
	}
}

func TestFilterByDateRange(t *testing.T) {
	start := monday
	end := monday.AddDate(0, 0, 1)
	records := []Record{
		finished(start.Add(-time.Second), 1, 0, "", "before"),
		finished(start, 1, 0, "", "at start"),
		finished(start.Add(12*time.Hour), 1, 0, "", "inside"),
		finished(end, 1, 0, "", "at end"),
		finished(end.Add(time.Second), 1, 0, "", "after"),
	}

	var got []string
	for _, r := range FilterByDateRange(records, start, end) {
		got = append(got, r.Task)
	}
	want := []string{"at start", "inside", "at end"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterByDateRange() mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkedToday(t *testing.T) {
	now := monday.Add(15 * time.Hour)
	records := []Record{
		finished(monday.Add(8*time.Hour), 1.0/3.0, 0, "", "a"),
		finished(monday.Add(10*time.Hour), 1.0/3.0, 0, "", "b"),
		{Start: monday.Add(14 * time.Hour), Hours: 0.25},
		finished(monday.Add(-time.Hour), 5, 0, "", "yesterday"),
	}
	if got := WorkedToday(records, now); got != 0.92 {
		t.Errorf("WorkedToday() = %v, want 0.92", got)
	}
}

func TestDailyTotals(t *testing.T) {
	records := []Record{
		finished(monday.Add(9*time.Hour), 1, 0, "", "a"),
		finished(monday.Add(11*time.Hour), 2, 0, "", "a"),
		finished(monday.AddDate(0, 0, 2).Add(9*time.Hour), 1, 0, "", "b"),
		{Start: monday.AddDate(0, 0, 2).Add(12 * time.Hour), Hours: 4, Task: "open"},
	}
	got := DailyTotals(records, monday, monday.AddDate(0, 0, 2).Add(23*time.Hour))
	want := []DayTotal{
		{Day: monday, Tasks: map[string]float64{"a": 3}, Total: 3},
		{Day: monday.AddDate(0, 0, 1), Tasks: map[string]float64{}, Total: 0},
		{Day: monday.AddDate(0, 0, 2), Tasks: map[string]float64{"b": 1}, Total: 1},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("DailyTotals() mismatch (-want +got):\n%s", diff)
	}
}
