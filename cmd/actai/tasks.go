package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/usecase"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (c *cli) plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show every plan with its milestones and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Loader.Reload(cmd.Context()); err != nil {
				return err
			}
			projects := c.app.Store.Snapshot().Projects
			return c.emit(cmd.OutOrStdout(), projects, func(w io.Writer) error {
				return writePlans(w, projects)
			})
		},
	}
}

func (c *cli) bucketCmd(bucket domain.Bucket, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(bucket),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := c.app.Client.ListTasks(cmd.Context(), bucket)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), tasks, func(w io.Writer) error {
				return writeTasks(w, tasks)
			})
		},
	}
}

func (c *cli) inProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "in-progress",
		Short: "Tasks currently in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := c.app.Client.ListInProgress(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), tasks, func(w io.Writer) error {
				return writeTasks(w, tasks)
			})
		},
	}
}

func (c *cli) advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <task-id>",
		Short: "Move a task to its next status (pending, in_progress, completed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			st, err := c.app.Status.AdvanceTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task %d is now %s\n", id, st)
			return nil
		},
	}
}

func (c *cli) setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <task-id> <pending|in_progress|completed>",
		Short: "Set the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := c.app.Status.SetTaskStatus(cmd.Context(), id, domain.TaskStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task %d is now %s\n", id, st)
			return nil
		},
	}
}

func (c *cli) toggleMilestoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-milestone <milestone-id>",
		Short: "Complete every task of a milestone, or reopen them all",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			if err := c.app.Status.ToggleMilestoneCompletion(cmd.Context(), id); err != nil {
				return err
			}
			m, _ := c.app.Store.Milestone(id)
			state := "reopened"
			if m.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "milestone %d %s (%d tasks)\n", id, state, len(m.Tasks))
			return nil
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a task, milestone or project",
	}
	cmd.AddCommand(c.editTaskCmd(), c.editMilestoneCmd(), c.editProjectCmd())
	return cmd
}

func (c *cli) editTaskCmd() *cobra.Command {
	var (
		title, description, due, priority, status string
		hours                                     float64
	)
	cmd := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Edit task fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var u domain.TaskUpdate
			f := cmd.Flags()
			if f.Changed("title") {
				u.Title = &title
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if f.Changed("due") {
				d, err := domain.ParseDate(due)
				if err != nil {
					return err
				}
				u.DueDate = &d
			}
			if f.Changed("priority") {
				p := domain.ParsePriority(strings.ToLower(priority))
				u.Priority = &p
			}
			if f.Changed("hours") {
				u.EstimatedHours = &hours
			}
			if f.Changed("status") {
				s := domain.TaskStatus(status)
				u.Status = &s
			}
			t, err := c.app.Editor.UpdateTask(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), t, func(w io.Writer) error {
				return writeTasks(w, []domain.Task{t})
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().Float64Var(&hours, "hours", 0, "estimated hours")
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or completed")
	return cmd
}

func (c *cli) editMilestoneCmd() *cobra.Command {
	var (
		title, description string
		order              int
	)
	cmd := &cobra.Command{
		Use:   "milestone <milestone-id>",
		Short: "Edit milestone fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var u domain.MilestoneUpdate
			f := cmd.Flags()
			if f.Changed("title") {
				u.Title = &title
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if f.Changed("order") {
				u.Order = &order
			}
			m, err := c.app.Editor.UpdateMilestone(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), m, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "milestone %d: %s\n", m.ID, m.Title)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title")
	cmd.Flags().StringVar(&description, "description", "", "milestone description")
	cmd.Flags().IntVar(&order, "order", 0, "display order")
	return cmd
}

func (c *cli) editProjectCmd() *cobra.Command {
	var title, description, status, start, end string
	cmd := &cobra.Command{
		Use:   "project <project-id>",
		Short: "Edit project fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var u domain.ProjectUpdate
			f := cmd.Flags()
			if f.Changed("title") {
				u.Title = &title
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if f.Changed("status") {
				u.Status = &status
			}
			for _, d := range []struct {
				flag, val string
				dst       **domain.Date
			}{{"start", start, &u.StartDate}, {"end", end, &u.EndDate}} {
				if !f.Changed(d.flag) {
					continue
				}
				parsed, err := domain.ParseDate(d.val)
				if err != nil {
					return fmt.Errorf("--%s: %w", d.flag, err)
				}
				*d.dst = &parsed
			}
			p, err := c.app.Editor.UpdateProject(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "project %d: %s\n", p.ID, p.Title)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "project title")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&status, "status", "", "project status")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	return cmd
}

func (c *cli) createPlanCmd() *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "create-plan <objective...>",
		Short: "Generate a new learning plan for an objective",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Editor.CreateProject(cmd.Context(), strings.Join(args, " "), weeks)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				return writePlans(w, []domain.Project{p})
			})
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "w", usecase.DefaultPlanWeeks, "plan duration in weeks")
	return cmd
}

func (c *cli) adaptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapt <task-id> <message...>",
		Short: "Ask the assistant to adapt a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := c.app.Editor.AdaptTask(cmd.Context(), id, strings.Join(args[1:], " "))
			if errors.Is(err, usecase.ErrEmptyMessage) {
				return errors.New("adapt: message must not be empty")
			}
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), t, func(w io.Writer) error {
				if err := writeTasks(w, []domain.Task{t}); err != nil {
					return err
				}
				if t.AISuggestion != nil {
					_, err := fmt.Fprintf(w, "\nsuggestion: %s\n", *t.AISuggestion)
					return err
				}
				return nil
			})
		},
	}
}
