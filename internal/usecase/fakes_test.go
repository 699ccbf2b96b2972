package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
)

type statusCall struct {
	ID     int64
	Status domain.TaskStatus
}

// fakeTasks implements ports.TaskAPI. setStatus, when set, decides each
// status response; otherwise the requested status is echoed back.
type fakeTasks struct {
	mu        sync.Mutex
	calls     []statusCall
	setStatus func(n int, id int64, s domain.TaskStatus) (domain.Task, error)

	buckets    map[domain.Bucket][]domain.Task
	bucketErr  error
	inProgress []domain.Task
	updated    domain.Task
	adapted    string
	err        error
}

func (f *fakeTasks) ListTasks(_ context.Context, b domain.Bucket) ([]domain.Task, error) {
	if f.bucketErr != nil {
		return nil, f.bucketErr
	}
	return f.buckets[b], nil
}

func (f *fakeTasks) ListInProgress(context.Context) ([]domain.Task, error) {
	if f.bucketErr != nil {
		return nil, f.bucketErr
	}
	return f.inProgress, nil
}

func (f *fakeTasks) SetTaskStatus(_ context.Context, id int64, s domain.TaskStatus) (domain.Task, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, statusCall{id, s})
	hook := f.setStatus
	f.mu.Unlock()
	if hook != nil {
		return hook(n, id, s)
	}
	return domain.Task{ID: id, Status: s}, nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, id int64, u domain.TaskUpdate) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}
	t := f.updated
	t.ID = id
	if u.Title != nil {
		t.Title = *u.Title
	}
	return t, nil
}

func (f *fakeTasks) AdaptTask(_ context.Context, id int64, message string) (domain.Task, error) {
	if f.err != nil {
		return domain.Task{}, f.err
	}
	f.adapted = message
	s := "split into two sessions"
	return domain.Task{ID: id, AISuggestion: &s}, nil
}

func (f *fakeTasks) statusCalls() []statusCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statusCall(nil), f.calls...)
}

type fakePlans struct {
	plans      []domain.Project
	listErr    error
	created    []string
	createErr  error
	updateErr  error
	listCalls  int
	milestones map[int64]domain.Milestone
}

func (f *fakePlans) ListPlans(context.Context) ([]domain.Project, error) {
	f.listCalls++
	return f.plans, f.listErr
}

func (f *fakePlans) CreatePlan(_ context.Context, objective, duration string) (domain.Project, error) {
	if f.createErr != nil {
		return domain.Project{}, f.createErr
	}
	f.created = append(f.created, objective+"|"+duration)
	p := domain.Project{ID: 100, Title: objective}
	f.plans = append(f.plans, p)
	return p, nil
}

func (f *fakePlans) UpdatePlan(_ context.Context, id int64, u domain.ProjectUpdate) (domain.Project, error) {
	if f.updateErr != nil {
		return domain.Project{}, f.updateErr
	}
	p := domain.Project{ID: id}
	if u.Title != nil {
		p.Title = *u.Title
	}
	return p, nil
}

func (f *fakePlans) UpdateMilestone(_ context.Context, id int64, u domain.MilestoneUpdate) (domain.Milestone, error) {
	if f.updateErr != nil {
		return domain.Milestone{}, f.updateErr
	}
	m := domain.Milestone{ID: id}
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Order != nil {
		m.Order = *u.Order
	}
	return m, nil
}

type fakeAudio struct {
	text  string
	audio []byte
	voice string
	err   error
}

func (f *fakeAudio) SpeechToText(_ context.Context, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return f.text, f.err
}

func (f *fakeAudio) TextToSpeech(_ context.Context, _ string, gender string) ([]byte, error) {
	f.voice = gender
	return f.audio, f.err
}

func task(id int64, s domain.TaskStatus) domain.Task {
	return domain.Task{ID: id, Title: "task", Status: s, Priority: domain.PriorityMedium}
}

// loadedStore holds project 1 with milestone 10 (tasks 1, 2, 3 pending) and
// milestone 11 (no tasks); task 1 is also due today.
func loadedStore(t *testing.T) *dashboard.Store {
	t.Helper()
	s := dashboard.New(zap.NewNop())
	s.Load(
		[]domain.Project{{
			ID:    1,
			Title: "Learn Go",
			Milestones: []domain.Milestone{
				{ID: 10, Title: "Basics", Order: 1, Tasks: []domain.Task{
					task(1, domain.StatusPending),
					task(2, domain.StatusPending),
					task(3, domain.StatusPending),
				}},
				{ID: 11, Title: "Later", Order: 2},
			},
		}},
		dashboard.Buckets{Today: []domain.Task{task(1, domain.StatusPending)}},
		nil,
	)
	require.Len(t, s.Snapshot().Projects, 1)
	return s
}
