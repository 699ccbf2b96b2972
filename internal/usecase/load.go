package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// Loader fetches everything the dashboard shows and installs it in the store.
type Loader struct {
	Log   *zap.Logger
	Plans ports.PlanAPI
	Tasks ports.TaskAPI
	Store *dashboard.Store
}

// Load fetches plans, the three due-date buckets and the in-progress list
// concurrently. A plans failure fails the load; a failed bucket or
// in-progress fetch is logged and leaves that view empty.
func (uc *Loader) Load(ctx context.Context) error {
	if uc.Plans == nil || uc.Tasks == nil || uc.Store == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}

	var (
		plans      []domain.Project
		buckets    = make([][]domain.Task, len(domain.Buckets))
		inProgress []domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = uc.Plans.ListPlans(gctx)
		return err
	})
	for i, b := range domain.Buckets {
		g.Go(func() error {
			tasks, err := uc.Tasks.ListTasks(gctx, b)
			if err != nil {
				uc.Log.Warn("failed to fetch task bucket", zap.String("bucket", string(b)), zap.Error(err))
				return nil
			}
			buckets[i] = tasks
			return nil
		})
	}
	g.Go(func() error {
		tasks, err := uc.Tasks.ListInProgress(gctx)
		if err != nil {
			uc.Log.Warn("failed to fetch in-progress tasks", zap.Error(err))
			return nil
		}
		inProgress = tasks
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.Store.SetError(bannerText("load plans", err))
		return err
	}

	var set dashboard.Buckets
	for i, b := range domain.Buckets {
		set = set.With(b, buckets[i])
	}
	uc.Store.Load(plans, set, inProgress)
	uc.Store.ClearError()
	uc.Log.Info("dashboard loaded",
		zap.Int("plans", len(plans)),
		zap.Int("today", len(set.Today)),
		zap.Int("tomorrow", len(set.Tomorrow)),
		zap.Int("upcoming", len(set.Upcoming)),
		zap.Int("in_progress", len(inProgress)),
	)
	return nil
}

// Reload refetches plans only, keeping the by-date views.
func (uc *Loader) Reload(ctx context.Context) error {
	plans, err := uc.Plans.ListPlans(ctx)
	if err != nil {
		uc.Store.SetError(bannerText("load plans", err))
		return err
	}
	uc.Store.SetProjects(plans)
	return nil
}
