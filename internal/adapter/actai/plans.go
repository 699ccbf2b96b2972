package actai

import (
	"context"
	"fmt"
	"net/http"

	"actai-dashboard/internal/domain"
)

func (c *Client) ListPlans(ctx context.Context) ([]domain.Project, error) {
	var raw []rawProject
	if err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		path:     "/plans/",
		endpoint: "GET /plans/",
	}, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// CreatePlan asks the backend to generate a plan for objective. duration is
// free text such as "4 weeks".
func (c *Client) CreatePlan(ctx context.Context, objective, duration string) (domain.Project, error) {
	body, err := jsonBody(map[string]string{
		"objective": objective,
		"duration":  duration,
	})
	if err != nil {
		return domain.Project{}, err
	}
	var raw rawProject
	if err := c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/plans/",
		endpoint:    "POST /plans/",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Project{}, err
	}
	return raw.toDomain(), nil
}

func (c *Client) UpdatePlan(ctx context.Context, id int64, u domain.ProjectUpdate) (domain.Project, error) {
	body, err := jsonBody(u)
	if err != nil {
		return domain.Project{}, err
	}
	var raw rawProject
	if err := c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/plans/%d/", id),
		endpoint:    "PUT /plans/{id}/",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Project{}, err
	}
	return raw.toDomain(), nil
}

func (c *Client) UpdateMilestone(ctx context.Context, id int64, u domain.MilestoneUpdate) (domain.Milestone, error) {
	body, err := jsonBody(u)
	if err != nil {
		return domain.Milestone{}, err
	}
	var raw rawMilestone
	if err := c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/milestones/%d/", id),
		endpoint:    "PUT /milestones/{id}/",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Milestone{}, err
	}
	return raw.toDomain(), nil
}
