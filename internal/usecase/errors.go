package usecase

import (
	"errors"

	"actai-dashboard/internal/domain"
)

// messager is implemented by API errors that carry a server-provided message.
type messager interface {
	Message() string
}

// bannerText turns err into the message shown in the dashboard error banner.
func bannerText(action string, err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrNoSession):
		return err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return "session rejected by server, please log in again"
	}
	var m messager
	if errors.As(err, &m) {
		return action + ": " + m.Message()
	}
	return action + ": " + err.Error()
}
