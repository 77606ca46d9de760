package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/model"
)

// AddProject creates a project owned by the user.
func AddProject(ctx context.Context, deps *cli.Deps, name string, limitHours float64, due *time.Time) {
	p, err := deps.Services.Project.Create(ctx, deps.User, name, limitHours, due)
	if err != nil {
		deps.Fail("Failed to add project", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Added project #%d: %s (%s planned)\n", p.ID, p.Name, cli.FormatHours(p.TimeLimitHours))
}

// ListProjects prints the user's projects.
func ListProjects(ctx context.Context, deps *cli.Deps) {
	projects, err := deps.Services.Project.List(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to list projects", err, "")
		return
	}
	if len(projects) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No projects found")
		_, _ = fmt.Fprintln(deps.Stdout, "Add one with: tally project add <name> --limit <hours>")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%-5s %-28s %-10s %10s %10s  %s\n", "ID", "Name", "Status", "Booked", "Planned", "Due")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 80))
	for _, p := range projects {
		due := "-"
		if p.DueDate != nil {
			due = p.DueDate.Format(time.DateOnly)
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%-5d %-28s %-10s %10s %10s  %s\n",
			p.ID, p.Name, p.Status, cli.FormatHours(p.CurrentHours), cli.FormatHours(p.TimeLimitHours), due)
	}
}

// SetProjectLimit changes a project's planned hours and optionally its due date.
func SetProjectLimit(ctx context.Context, deps *cli.Deps, id int64, limitHours float64, due *time.Time) {
	p, err := deps.Services.Project.SetLimit(ctx, deps.User, id, limitHours, due)
	if err != nil {
		deps.Fail("Failed to update project", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project #%d %s: %s planned", p.ID, p.Name, cli.FormatHours(p.TimeLimitHours))
	if p.DueDate != nil {
		_, _ = fmt.Fprintf(deps.Stdout, ", due %s", p.DueDate.Format(time.DateOnly))
	}
	_, _ = fmt.Fprintln(deps.Stdout)
}

// SetProjectStatus moves a project to another status.
func SetProjectStatus(ctx context.Context, deps *cli.Deps, id int64, status string) {
	st, err := model.ParseProjectStatus(status)
	if err != nil {
		deps.Fail("Invalid project status", err, "")
		return
	}
	p, err := deps.Services.Project.SetStatus(ctx, deps.User, id, st)
	if err != nil {
		deps.Fail("Failed to update project", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Project #%d %s is now %s\n", p.ID, p.Name, p.Status)
}

// AddTask creates a task. When projectID is 0 an @name in the title
// selects one of the user's projects.
func AddTask(ctx context.Context, deps *cli.Deps, title string, projectID int64, due *time.Time) {
	title, ref := cli.SplitProjectRef(title)
	if projectID == 0 && ref != "" {
		projects, err := deps.Services.Project.List(ctx, deps.User)
		if err != nil {
			deps.Fail("Failed to list projects", err, "")
			return
		}
		p, ok := cli.FindProject(projects, ref)
		if !ok {
			deps.Fail(fmt.Sprintf("Unknown project '@%s'", ref), nil, "List your projects with 'tally project list'")
			return
		}
		projectID = p.ID
	}

	var project *int64
	if projectID != 0 {
		project = &projectID
	}
	t, err := deps.Services.Task.Create(ctx, deps.User, title, project, due)
	if err != nil {
		deps.Fail("Failed to add task", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Added task #%d: %s\n", t.ID, describeTask(ctx, deps, t.ID))
}

// ListTasks prints the tasks the user owns or is assigned to.
func ListTasks(ctx context.Context, deps *cli.Deps, projectID int64) {
	tasks, err := deps.Services.Report.TaskInfos(ctx, deps.User)
	if err != nil {
		deps.Fail("Failed to list tasks", err, "")
		return
	}
	var shown int
	for _, t := range tasks {
		if projectID != 0 && (t.ProjectID == nil || *t.ProjectID != projectID) {
			continue
		}
		printTaskInfo(deps, t)
		shown++
	}
	if shown == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No tasks found")
	}
}

// SetTaskStatus changes a task's status.
func SetTaskStatus(ctx context.Context, deps *cli.Deps, id int64, status model.TaskStatus) {
	t, err := deps.Services.Task.SetStatus(ctx, deps.User, id, status)
	if err != nil {
		deps.Fail("Failed to update task", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Task #%d %s is now %s\n", t.ID, t.Title, t.Status)
}

// MoveTask moves a task into projectID, or out of its project when 0.
func MoveTask(ctx context.Context, deps *cli.Deps, id, projectID int64) {
	var project *int64
	if projectID != 0 {
		project = &projectID
	}
	t, err := deps.Services.Task.Move(ctx, deps.User, id, project)
	if err != nil {
		deps.Fail("Failed to move task", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Moved task #%d: %s\n", t.ID, describeTask(ctx, deps, t.ID))
}

// AssignTask sets the task's assignee, or clears it when assignee is 0.
func AssignTask(ctx context.Context, deps *cli.Deps, id, assignee int64) {
	var to *int64
	if assignee != 0 {
		to = &assignee
	}
	t, err := deps.Services.Task.Assign(ctx, deps.User, id, to)
	if err != nil {
		deps.Fail("Failed to assign task", err, "")
		return
	}
	if t.AssigneeID == nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Task #%d %s is unassigned\n", t.ID, t.Title)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Task #%d %s is assigned to user %d\n", t.ID, t.Title, *t.AssigneeID)
}
