package actai

import (
	"context"
	"fmt"
	"net/http"

	"actai-dashboard/internal/domain"
)

func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body, err := jsonBody(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	return c.token(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/register",
		endpoint:    "POST /auth/register",
		body:        body,
		contentType: "application/json",
		public:      true,
	})
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := jsonBody(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	return c.token(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		endpoint:    "POST /auth/login",
		body:        body,
		contentType: "application/json",
		public:      true,
	})
}

func (c *Client) token(ctx context.Context, r request) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, r, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("actai: %s: %w: missing access_token", r.endpoint, domain.ErrMalformedResponse)
	}
	return out.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.doJSON(ctx, request{
		method:   http.MethodGet,
		path:     "/users/me",
		endpoint: "GET /users/me",
	}, &u)
	return u, err
}
