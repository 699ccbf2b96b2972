package actai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"actai-dashboard/internal/domain"
)

func (c *Client) ListTasks(ctx context.Context, bucket domain.Bucket) ([]domain.Task, error) {
	return c.listTasks(ctx, "/tasks/"+string(bucket), "GET /tasks/"+string(bucket))
}

func (c *Client) ListInProgress(ctx context.Context) ([]domain.Task, error) {
	return c.listTasks(ctx, "/tasks/in-progress", "GET /tasks/in-progress")
}

func (c *Client) listTasks(ctx context.Context, path, endpoint string) ([]domain.Task, error) {
	var raw []rawTask
	if err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		path:     path,
		endpoint: endpoint,
	}, &raw); err != nil {
		return nil, err
	}
	return mapTasks(raw), nil
}

// SetTaskStatus persists status for task id and returns the task as the
// server stored it.
func (c *Client) SetTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	var raw rawTask
	if err := c.doJSON(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/tasks/%d/status", id),
		endpoint: "PATCH /tasks/{id}/status",
		query:    url.Values{"status": {string(status)}},
	}, &raw); err != nil {
		return domain.Task{}, err
	}
	task := raw.toDomain()
	if raw.Status == "" {
		task.Status = status
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, u domain.TaskUpdate) (domain.Task, error) {
	body, err := jsonBody(u)
	if err != nil {
		return domain.Task{}, err
	}
	var raw rawTask
	if err := c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/tasks/%d/", id),
		endpoint:    "PUT /tasks/{id}/",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Task{}, err
	}
	return raw.toDomain(), nil
}

// AdaptTask sends the user's feedback to the AI adaptation endpoint.
func (c *Client) AdaptTask(ctx context.Context, id int64, message string) (domain.Task, error) {
	body, err := jsonBody(map[string]string{"user_message": message})
	if err != nil {
		return domain.Task{}, err
	}
	var raw rawTask
	if err := c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/tasks/%d/adapt", id),
		endpoint:    "POST /tasks/{id}/adapt",
		body:        body,
		contentType: "application/json",
	}, &raw); err != nil {
		return domain.Task{}, err
	}
	return raw.toDomain(), nil
}
