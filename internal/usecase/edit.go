package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// DefaultPlanWeeks is the plan length offered when the user gives none.
const DefaultPlanWeeks = 4

// ErrEmptyMessage is returned when an adaptation request carries no text.
var ErrEmptyMessage = errors.New("message must not be empty")

// Editor applies user edits through the API and folds the server's version
// of the entity back into the dashboard.
type Editor struct {
	Log   *zap.Logger
	Plans ports.PlanAPI
	Tasks ports.TaskAPI
	Store *dashboard.Store
}

func (uc *Editor) UpdateTask(ctx context.Context, id int64, u domain.TaskUpdate) (domain.Task, error) {
	if u.Status != nil && !u.Status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *u.Status)
	}
	return uc.fencedTask(ctx, id, "update task", func(ctx context.Context) (domain.Task, error) {
		return uc.Tasks.UpdateTask(ctx, id, u)
	})
}

// AdaptTask asks the AI to rework the task given the user's feedback.
func (uc *Editor) AdaptTask(ctx context.Context, id int64, message string) (domain.Task, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Task{}, ErrEmptyMessage
	}
	return uc.fencedTask(ctx, id, "adapt task", func(ctx context.Context) (domain.Task, error) {
		return uc.Tasks.AdaptTask(ctx, id, message)
	})
}

func (uc *Editor) fencedTask(ctx context.Context, id int64, action string, call func(context.Context) (domain.Task, error)) (domain.Task, error) {
	ticket := uc.Store.BeginTaskUpdate(id)
	defer uc.Store.EndTaskUpdate(ticket)

	task, err := call(ctx)
	if err != nil {
		uc.Store.FailTaskUpdate(ticket)
		uc.Log.Warn(action+" failed", zap.Int64("task_id", id), zap.Error(err))
		uc.Store.SetError(bannerText(action, err))
		return domain.Task{}, err
	}
	if task.ID == 0 {
		task.ID = id
	}
	uc.Store.CommitTask(ticket, task)
	return task, nil
}

func (uc *Editor) UpdateMilestone(ctx context.Context, id int64, u domain.MilestoneUpdate) (domain.Milestone, error) {
	m, err := uc.Plans.UpdateMilestone(ctx, id, u)
	if err != nil {
		uc.Log.Warn("update milestone failed", zap.Int64("milestone_id", id), zap.Error(err))
		uc.Store.SetError(bannerText("update milestone", err))
		return domain.Milestone{}, err
	}
	if m.ID == 0 {
		m.ID = id
	}
	uc.Store.ReplaceMilestone(m)
	return m, nil
}

func (uc *Editor) UpdateProject(ctx context.Context, id int64, u domain.ProjectUpdate) (domain.Project, error) {
	p, err := uc.Plans.UpdatePlan(ctx, id, u)
	if err != nil {
		uc.Log.Warn("update project failed", zap.Int64("project_id", id), zap.Error(err))
		uc.Store.SetError(bannerText("update project", err))
		return domain.Project{}, err
	}
	if p.ID == 0 {
		p.ID = id
	}
	uc.Store.ReplaceProject(p)
	return p, nil
}

// CreateProject asks the backend to generate a plan for objective spread
// over weeks weeks, then reloads the plan list.
func (uc *Editor) CreateProject(ctx context.Context, objective string, weeks int) (domain.Project, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return domain.Project{}, errors.New("objective must not be empty")
	}
	if weeks <= 0 {
		weeks = DefaultPlanWeeks
	}
	p, err := uc.Plans.CreatePlan(ctx, objective, fmt.Sprintf("%d weeks", weeks))
	if err != nil {
		uc.Store.SetError(bannerText("create project", err))
		return domain.Project{}, err
	}
	uc.Log.Info("project created", zap.Int64("project_id", p.ID), zap.String("title", p.Title))

	plans, err := uc.Plans.ListPlans(ctx)
	if err != nil {
		uc.Log.Warn("reload plans after create failed", zap.Error(err))
		return p, nil
	}
	uc.Store.SetProjects(plans)
	return p, nil
}
