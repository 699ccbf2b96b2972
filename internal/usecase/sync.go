package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"actai-dashboard/internal/ports"
)

// SyncUseCase copies the plan tree from ActAI into a Sink.
type SyncUseCase struct {
	Log   *zap.Logger
	Plans ports.PlanAPI
	Sink  ports.Sink
}

// Run returns the number of plans written.
func (uc *SyncUseCase) Run(ctx context.Context) (int, error) {
	if uc.Plans == nil || uc.Sink == nil {
		return 0, errors.New("usecase not initialized: missing dependencies")
	}
	uc.Log.Info("fetching plans")

	plans, err := uc.Plans.ListPlans(ctx)
	if err != nil {
		return 0, err
	}
	uc.Log.Info("fetched plans", zap.Int("count", len(plans)))

	if len(plans) == 0 {
		uc.Log.Info("no plans to sync")
		return 0, nil
	}

	if err := uc.Sink.SyncPlans(ctx, plans); err != nil {
		return 0, err
	}
	uc.Log.Info("sync completed", zap.Int("count", len(plans)))
	return len(plans), nil
}
