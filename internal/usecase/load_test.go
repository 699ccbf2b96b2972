package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/domain"
)

func TestLoader_InstallsEverything(t *testing.T) {
	store := dashboard.New(zap.NewNop())
	plans := &fakePlans{plans: []domain.Project{{ID: 1, Milestones: []domain.Milestone{
		{ID: 10, Tasks: []domain.Task{task(1, domain.StatusCompleted), task(2, domain.StatusInProgress)}},
	}}}}
	tasks := &fakeTasks{
		buckets: map[domain.Bucket][]domain.Task{
			domain.BucketToday:    {task(1, domain.StatusCompleted)},
			domain.BucketUpcoming: {task(2, domain.StatusInProgress)},
		},
		inProgress: []domain.Task{task(2, domain.StatusInProgress)},
	}
	uc := &Loader{Log: zap.NewNop(), Plans: plans, Tasks: tasks, Store: store}

	require.NoError(t, uc.Load(t.Context()))
	st := store.Snapshot()
	require.Len(t, st.Projects, 1)
	assert.InDelta(t, 50.0, st.Projects[0].ProgressPercentage, 1e-9)
	assert.Len(t, st.Buckets.Today, 1)
	assert.Empty(t, st.Buckets.Tomorrow)
	assert.Len(t, st.Buckets.Upcoming, 1)
	assert.Len(t, st.InProgress, 1)
	assert.Empty(t, st.Error)
}

func TestLoader_BucketFailureIsNotFatal(t *testing.T) {
	store := dashboard.New(zap.NewNop())
	plans := &fakePlans{plans: []domain.Project{{ID: 1}}}
	tasks := &fakeTasks{bucketErr: errors.New("timeout")}
	uc := &Loader{Log: zap.NewNop(), Plans: plans, Tasks: tasks, Store: store}

	require.NoError(t, uc.Load(t.Context()))
	st := store.Snapshot()
	assert.Len(t, st.Projects, 1)
	assert.Empty(t, st.Buckets.Today)
	assert.Empty(t, st.InProgress)
}

func TestLoader_PlansFailureIsFatal(t *testing.T) {
	store := dashboard.New(zap.NewNop())
	plans := &fakePlans{listErr: errors.New("boom")}
	uc := &Loader{Log: zap.NewNop(), Plans: plans, Tasks: &fakeTasks{}, Store: store}

	err := uc.Load(t.Context())
	require.Error(t, err)
	st := store.Snapshot()
	assert.Empty(t, st.Projects)
	assert.Equal(t, "load plans: boom", st.Error)
}

func TestLoader_Reload(t *testing.T) {
	store := loadedStore(t)
	plans := &fakePlans{plans: []domain.Project{{ID: 1, Title: "Renamed"}, {ID: 2}}}
	uc := &Loader{Log: zap.NewNop(), Plans: plans, Tasks: &fakeTasks{}, Store: store}

	require.NoError(t, uc.Reload(t.Context()))
	st := store.Snapshot()
	assert.Len(t, st.Projects, 2)
	assert.Len(t, st.Buckets.Today, 1, "by-date views kept")
}
