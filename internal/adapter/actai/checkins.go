package actai

import (
	"context"
	"net/http"

	"actai-dashboard/internal/domain"
)

// GetCheckin returns the check-in recorded for date. A day without one
// yields an *APIError matching domain.ErrNotFound.
func (c *Client) GetCheckin(ctx context.Context, date domain.Date) (domain.Checkin, error) {
	var raw rawCheckin
	if err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		path:     "/daily-checkin/" + date.String(),
		endpoint: "GET /daily-checkin/{date}",
	}, &raw); err != nil {
		return domain.Checkin{}, err
	}
	return raw.toDomain(), nil
}

func (c *Client) CheckinHistory(ctx context.Context) ([]domain.Checkin, error) {
	var raw []rawCheckin
	if err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		path:     "/daily-checkin/history",
		endpoint: "GET /daily-checkin/history",
	}, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Checkin, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) CreateCheckin(ctx context.Context, in domain.Checkin) (domain.Checkin, error) {
	return c.saveCheckin(ctx, http.MethodPost, in)
}

// UpdateCheckin rewrites an existing check-in; in.ID selects it.
func (c *Client) UpdateCheckin(ctx context.Context, in domain.Checkin) (domain.Checkin, error) {
	return c.saveCheckin(ctx, http.MethodPut, in)
}

func (c *Client) saveCheckin(ctx context.Context, method string, in domain.Checkin) (domain.Checkin, error) {
	body, err := jsonBody(in)
	if err != nil {
		return domain.Checkin{}, err
	}
	var raw rawCheckin
	if err := c.doJSON(ctx, request{
		method:      method,
		path:        "/daily-checkin",
		endpoint:    method + " /daily-checkin",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Checkin{}, err
	}
	return raw.toDomain(), nil
}
