package ports

import (
	"context"
	"io"

	"actai-dashboard/internal/domain"
)

// AuthAPI covers the unauthenticated account endpoints.
type AuthAPI interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context) (domain.User, error)
}

// PlanAPI reads and edits the project tree.
type PlanAPI interface {
	ListPlans(ctx context.Context) ([]domain.Project, error)
	CreatePlan(ctx context.Context, objective, duration string) (domain.Project, error)
	UpdatePlan(ctx context.Context, id int64, u domain.ProjectUpdate) (domain.Project, error)
	UpdateMilestone(ctx context.Context, id int64, u domain.MilestoneUpdate) (domain.Milestone, error)
}

// TaskAPI is the remote task store.
type TaskAPI interface {
	ListTasks(ctx context.Context, bucket domain.Bucket) ([]domain.Task, error)
	ListInProgress(ctx context.Context) ([]domain.Task, error)
	SetTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, u domain.TaskUpdate) (domain.Task, error)
	AdaptTask(ctx context.Context, id int64, message string) (domain.Task, error)
}

// AudioAPI converts between speech and text.
type AudioAPI interface {
	SpeechToText(ctx context.Context, filename string, audio io.Reader) (string, error)
	TextToSpeech(ctx context.Context, text, gender string) ([]byte, error)
}

// CheckinAPI manages daily check-ins. GetCheckin returns domain.ErrNotFound
// when nothing is recorded for the date.
type CheckinAPI interface {
	GetCheckin(ctx context.Context, date domain.Date) (domain.Checkin, error)
	CheckinHistory(ctx context.Context) ([]domain.Checkin, error)
	CreateCheckin(ctx context.Context, c domain.Checkin) (domain.Checkin, error)
	UpdateCheckin(ctx context.Context, c domain.Checkin) (domain.Checkin, error)
}

// TokenSource yields the bearer token for authenticated requests.
type TokenSource interface {
	Token() (string, error)
}

// SessionStore persists the access token between runs.
type SessionStore interface {
	TokenSource
	Save(token string) error
	Clear() error
}

// NotesStore persists free-text notes keyed by "<entity-type>-<id>".
type NotesStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, notes map[string]string) error
}

// Sink receives plan trees and persists them to a target system for reporting.
type Sink interface {
	SyncPlans(ctx context.Context, plans []domain.Project) error
}
