package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 100
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidUsername  = fmt.Errorf("username must be %d to %d characters", MinUsernameLength, MaxUsernameLength)
	ErrInvalidEmail     = errors.New("invalid email address")
)

// AuthUseCase handles account registration and the login session.
type AuthUseCase struct {
	Log      *zap.Logger
	API      ports.AuthAPI
	Sessions ports.SessionStore
	Store    *dashboard.Store
}

// ValidateRegistration checks the form before anything is sent.
func ValidateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(username)); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (uc *AuthUseCase) Register(ctx context.Context, username, email, password string) error {
	if err := ValidateRegistration(username, email, password); err != nil {
		return err
	}
	token, err := uc.API.Register(ctx, strings.TrimSpace(username), email, password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return uc.start(username, token)
}

func (uc *AuthUseCase) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	token, err := uc.API.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return uc.start(username, token)
}

func (uc *AuthUseCase) start(username, token string) error {
	if err := uc.Sessions.Save(token); err != nil {
		return err
	}
	if uc.Store != nil {
		uc.Store.Reset()
	}
	uc.Log.Info("session started", zap.String("username", username))
	return nil
}

// Logout forgets the token and drops the dashboard state. Responses to
// requests still in flight are discarded.
func (uc *AuthUseCase) Logout() error {
	if uc.Store != nil {
		uc.Store.Reset()
	}
	return uc.Sessions.Clear()
}

func (uc *AuthUseCase) Me(ctx context.Context) (domain.User, error) {
	return uc.API.Me(ctx)
}
