package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// CheckinForm is the daily check-in as shown to the user. Editing is true
// when nothing is recorded yet for the day.
type CheckinForm struct {
	Checkin domain.Checkin `json:"checkin"`
	Editing bool           `json:"editing"`
}

// CheckinUseCase reads and writes daily check-ins.
type CheckinUseCase struct {
	Log *zap.Logger
	API ports.CheckinAPI
}

// Load returns the check-in for date. A day without a check-in, or a failed
// fetch, yields a blank form in edit mode.
func (uc *CheckinUseCase) Load(ctx context.Context, date domain.Date) (CheckinForm, error) {
	c, err := uc.API.GetCheckin(ctx, date)
	if errors.Is(err, domain.ErrNotFound) {
		return CheckinForm{Checkin: domain.BlankCheckin(date), Editing: true}, nil
	}
	if err != nil {
		uc.Log.Warn("failed to fetch check-in", zap.String("date", date.String()), zap.Error(err))
		return CheckinForm{Checkin: domain.BlankCheckin(date), Editing: true}, err
	}
	return CheckinForm{Checkin: c}, nil
}

// Save creates the check-in, or updates it when it already has an id.
func (uc *CheckinUseCase) Save(ctx context.Context, c domain.Checkin) (domain.Checkin, error) {
	if c.Date.IsZero() {
		return domain.Checkin{}, errors.New("check-in date is required")
	}
	if s := c.ProductivityScore; s != nil && (*s < 0 || *s > 10) {
		return domain.Checkin{}, fmt.Errorf("productivity score %g out of range 0..10", *s)
	}
	var (
		saved domain.Checkin
		err   error
	)
	if c.ID != 0 {
		saved, err = uc.API.UpdateCheckin(ctx, c)
	} else {
		saved, err = uc.API.CreateCheckin(ctx, c)
	}
	if err != nil {
		return domain.Checkin{}, fmt.Errorf("save check-in: %w", err)
	}
	uc.Log.Info("check-in saved", zap.Int64("id", saved.ID), zap.String("date", saved.Date.String()))
	return saved, nil
}

// History lists past check-ins. No history yet is an empty list.
func (uc *CheckinUseCase) History(ctx context.Context) ([]domain.Checkin, error) {
	list, err := uc.API.CheckinHistory(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Checkin{}, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
