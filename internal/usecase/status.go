package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// StatusCoordinator sends task status changes to the API and applies them to
// the dashboard once the server has confirmed them.
type StatusCoordinator struct {
	Log   *zap.Logger
	Tasks ports.TaskAPI
	Store *dashboard.Store
}

// SetTaskStatus persists status for the task and folds the confirmed value
// into every view. Overlapping calls for the same task are all sent and the
// newest one that succeeds decides the views; the returned status is what the
// server confirmed for this call.
func (uc *StatusCoordinator) SetTaskStatus(ctx context.Context, taskID int64, status domain.TaskStatus) (domain.TaskStatus, error) {
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if uc.Tasks == nil || uc.Store == nil {
		return "", errors.New("usecase not initialized: missing dependencies")
	}
	return uc.finish(uc.send(ctx, uc.Store.BeginTaskUpdate(taskID), status))
}

// AdvanceTask moves the task one step along pending → in_progress →
// completed → pending. It is rejected while a request for the task is in
// flight.
func (uc *StatusCoordinator) AdvanceTask(ctx context.Context, taskID int64) (domain.TaskStatus, error) {
	if uc.Tasks == nil || uc.Store == nil {
		return "", errors.New("usecase not initialized: missing dependencies")
	}
	ticket, ok := uc.Store.TryBeginTaskUpdate(taskID)
	if !ok {
		return "", fmt.Errorf("task %d: %w", taskID, domain.ErrTaskUpdating)
	}
	current, ok := uc.Store.TaskStatus(taskID)
	if !ok {
		current = domain.StatusPending
	}
	return uc.finish(uc.send(ctx, ticket, current.Next()))
}

func (uc *StatusCoordinator) finish(confirmed domain.TaskStatus, err error) (domain.TaskStatus, error) {
	if err != nil {
		uc.Store.SetError(bannerText("update task", err))
		return "", err
	}
	uc.Store.ClearError()
	return confirmed, nil
}

// ToggleMilestoneCompletion sets every task of the milestone to completed, or
// back to pending when the milestone is already completed. Tasks are updated
// one at a time. On the first failure the milestone flag reverts to its prior
// value and the remaining tasks are skipped; tasks the server already
// confirmed keep their new status.
func (uc *StatusCoordinator) ToggleMilestoneCompletion(ctx context.Context, milestoneID int64) error {
	if uc.Tasks == nil || uc.Store == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	m, ok := uc.Store.Milestone(milestoneID)
	if !ok {
		return fmt.Errorf("milestone %d: %w", milestoneID, domain.ErrNotFound)
	}
	if len(m.Tasks) == 0 {
		uc.Log.Debug("milestone has no tasks, nothing to toggle", zap.Int64("milestone_id", milestoneID))
		return nil
	}

	prior := m.Completed
	target := !prior
	status := domain.StatusCompleted
	if !target {
		status = domain.StatusPending
	}
	uc.Store.SetMilestoneCompleted(milestoneID, target)

	for i, t := range m.Tasks {
		if _, err := uc.send(ctx, uc.Store.BeginTaskUpdate(t.ID), status); err != nil {
			uc.Store.SetMilestoneCompleted(milestoneID, prior)
			uc.Log.Error("milestone toggle stopped",
				zap.Int64("milestone_id", milestoneID),
				zap.Int64("task_id", t.ID),
				zap.Int("confirmed", i),
				zap.Int("total", len(m.Tasks)),
				zap.Error(err),
			)
			uc.Store.SetError(bannerText("toggle milestone", err))
			return fmt.Errorf("toggle milestone %d: task %d: %w", milestoneID, t.ID, err)
		}
	}
	uc.Store.ClearError()
	uc.Log.Info("milestone toggled",
		zap.Int64("milestone_id", milestoneID),
		zap.String("status", string(status)),
		zap.Int("tasks", len(m.Tasks)),
	)
	return nil
}

// send issues the status request behind ticket. The confirmed status is the
// one the server reports, falling back to the requested one.
func (uc *StatusCoordinator) send(ctx context.Context, ticket dashboard.Ticket, status domain.TaskStatus) (domain.TaskStatus, error) {
	defer uc.Store.EndTaskUpdate(ticket)

	task, err := uc.Tasks.SetTaskStatus(ctx, ticket.TaskID, status)
	if err != nil {
		uc.Store.FailTaskUpdate(ticket)
		uc.Log.Warn("task status update failed",
			zap.Int64("task_id", ticket.TaskID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return "", err
	}
	confirmed := status
	if task.Status != "" {
		confirmed = task.Status
	}
	if !uc.Store.CommitTaskStatus(ticket, confirmed) {
		uc.Log.Debug("status response superseded", zap.Int64("task_id", ticket.TaskID))
	}
	return confirmed, nil
}
