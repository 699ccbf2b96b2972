package actai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"actai-dashboard/internal/domain"
)

// APIError is a non-2xx response. Detail holds the server's "detail" message,
// or an excerpt of the body when it had no such field.
type APIError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("actai: %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("actai: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Message is the text shown to the user for this error.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// TransportError wraps a failure to reach the API.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("actai: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// parseDetail extracts the FastAPI-style {"detail": ...} message. detail may
// be a string or a list of validation errors carrying "msg" fields.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(envelope.Detail)
}
