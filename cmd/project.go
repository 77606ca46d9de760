package cmd

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/cli/handlers"
	"github.com/xolan/tally/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Manage projects. A project has a time limit (planned hours) and an
optional due date; its booked hours are the sum of its tasks' time.

Examples:
  tally project add Thesis --limit 120 --due 2025-06-30
  tally project list
  tally project limit 1 150 --due 2025-07-15
  tally project status 1 completed`,
	Args: cobra.NoArgs,
	Run:  run(handlers.ListProjects),
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetFloat64("limit")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			due, ok := dueFlag(cmd, d)
			if !ok {
				return
			}
			handlers.AddProject(ctx, d, strings.Join(args, " "), limit, due)
		})
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	Run:   run(handlers.ListProjects),
}

var projectLimitCmd = &cobra.Command{
	Use:   "limit <project-id> <hours>",
	Short: "Change a project's planned hours and due date",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "project")
			if !ok {
				return
			}
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				d.Fail("Invalid hours '"+args[1]+"'", err, "Pass the planned hours as a number, e.g. 40 or 12.5")
				return
			}
			due, ok := dueFlag(cmd, d)
			if !ok {
				return
			}
			handlers.SetProjectLimit(ctx, d, id, hours, due)
		})
	},
}

var projectStatusCmd = &cobra.Command{
	Use:       "status <project-id> <active|completed|archived>",
	Short:     "Change a project's status",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"active", "completed", "archived"},
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "project")
			if !ok {
				return
			}
			handlers.SetProjectStatus(ctx, d, id, args[1])
		})
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Manage tasks. A task belongs to at most one project; its total is the
sum of its entries' durations.

Examples:
  tally task add "Write introduction @thesis"
  tally task add "Read papers" --project 1 --due 2025-04-01
  tally task list --month 2025-03
  tally task done 4
  tally task move 4 2
  tally task assign 4 7`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			handlers.ListTasks(ctx, d, 0)
		})
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task (use @name to pick a project)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectID, _ := cmd.Flags().GetInt64("project")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			due, ok := dueFlag(cmd, d)
			if !ok {
				return
			}
			handlers.AddTask(ctx, d, strings.Join(args, " "), projectID, due)
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks you own or are assigned to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		projectID, _ := cmd.Flags().GetInt64("project")
		month, _ := cmd.Flags().GetString("month")
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			if month == "" {
				handlers.ListTasks(ctx, d, projectID)
				return
			}
			year, m, err := parserFor(d).Month(month)
			if err != nil {
				d.Fail("Invalid --month", err, "")
				return
			}
			handlers.ShowMonth(ctx, d, year, m)
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			handlers.SetTaskStatus(ctx, d, id, model.TaskDone)
		})
	},
}

var taskStatusCmd = &cobra.Command{
	Use:       "status <task-id> <todo|in_progress|done>",
	Short:     "Change a task's status",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"todo", "in_progress", "done"},
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			status, err := model.ParseTaskStatus(args[1])
			if err != nil {
				d.Fail("Invalid task status", err, "")
				return
			}
			handlers.SetTaskStatus(ctx, d, id, status)
		})
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> [project-id]",
	Short: "Move a task to a project, or out of its project",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			projectID, ok := idArg(d, args, 1, "project")
			if !ok {
				return
			}
			handlers.MoveTask(ctx, d, id, projectID)
		})
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign <task-id> [user-id]",
	Short: "Assign a task to a user, or clear the assignee",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(cmd, func(ctx context.Context, d *cli.Deps) {
			id, ok := idArg(d, args, 0, "task")
			if !ok {
				return
			}
			user, ok := idArg(d, args, 1, "user")
			if !ok {
				return
			}
			handlers.AssignTask(ctx, d, id, user)
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd, taskCmd)
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectLimitCmd, projectStatusCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskStatusCmd, taskMoveCmd, taskAssignCmd)

	projectAddCmd.Flags().Float64("limit", 0, "Planned hours for the project")
	_ = projectAddCmd.MarkFlagRequired("limit")
	for _, c := range []*cobra.Command{projectAddCmd, projectLimitCmd, taskAddCmd} {
		c.Flags().String("due", "", "Due date (YYYY-MM-DD or DD/MM/YYYY)")
	}

	taskAddCmd.Flags().Int64("project", 0, "Project id (overrides @name)")
	taskListCmd.Flags().Int64("project", 0, "Only tasks of this project")
	taskListCmd.Flags().String("month", "", "Tasks due in or created in a month (YYYY-MM)")
}

// dueFlag parses --due when it was given.
func dueFlag(cmd *cobra.Command, d *cli.Deps) (*time.Time, bool) {
	if !cmd.Flags().Changed("due") {
		return nil, true
	}
	raw, _ := cmd.Flags().GetString("due")
	due, err := parserFor(d).Date(raw)
	if err != nil {
		d.Fail("Invalid --due", err, "")
		return nil, false
	}
	return &due, true
}
