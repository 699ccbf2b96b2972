package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tasks(statuses ...TaskStatus) []Task {
	out := make([]Task, len(statuses))
	for i, s := range statuses {
		out[i] = Task{ID: int64(i + 1), Status: s}
	}
	return out
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name   string
		groups [][]TaskStatus
		want   float64
	}{
		{"no milestones", nil, 0},
		{"empty milestones", [][]TaskStatus{{}, {}}, 0},
		{"half", [][]TaskStatus{{StatusCompleted, StatusPending}}, 50},
		{"all", [][]TaskStatus{{StatusCompleted}, {StatusCompleted}}, 100},
		{"one third", [][]TaskStatus{{StatusCompleted, StatusPending, StatusInProgress}}, 33.3},
		{"two thirds", [][]TaskStatus{{StatusCompleted, StatusCompleted}, {StatusPending}}, 66.7},
		{"in progress does not count", [][]TaskStatus{{StatusInProgress, StatusInProgress}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Project
			for i, g := range tc.groups {
				p.Milestones = append(p.Milestones, Milestone{ID: int64(i + 1), Tasks: tasks(g...)})
			}
			assert.Equal(t, tc.want, Progress(p))
		})
	}
}

func TestProgress_SnapsNearIntegers(t *testing.T) {
	// 1/201 completed ~= 0.4975%, 200/201 ~= 99.5%
	var ts []Task
	for i := 0; i < 201; i++ {
		ts = append(ts, Task{ID: int64(i), Status: StatusPending})
	}
	ts[0].Status = StatusCompleted
	p := Project{Milestones: []Milestone{{ID: 1, Tasks: ts}}}
	assert.Equal(t, 0.5, Progress(p))

	// 1999/2000 = 99.95% is within 0.1 of 100
	big := make([]Task, 2000)
	for i := range big {
		big[i] = Task{ID: int64(i), Status: StatusCompleted}
	}
	big[0].Status = StatusPending
	p = Project{Milestones: []Milestone{{ID: 1, Tasks: big}}}
	assert.Equal(t, float64(100), Progress(p))
}

func TestMilestoneCompleted(t *testing.T) {
	assert.False(t, MilestoneCompleted(Milestone{}), "empty milestone is never completed")
	assert.False(t, MilestoneCompleted(Milestone{Tasks: tasks(StatusCompleted, StatusInProgress)}))
	assert.True(t, MilestoneCompleted(Milestone{Tasks: tasks(StatusCompleted, StatusCompleted)}))
}

func TestProjectRecompute(t *testing.T) {
	p := Project{
		ID: 1,
		Milestones: []Milestone{
			{ID: 20, Order: 2, Tasks: tasks(StatusPending)},
			{ID: 10, Order: 1, Completed: false, Tasks: tasks(StatusCompleted)},
		},
		ProgressPercentage: 99,
	}
	got := p.Recompute()

	assert.Equal(t, int64(10), got.Milestones[0].ID)
	assert.True(t, got.Milestones[0].Completed)
	assert.False(t, got.Milestones[1].Completed)
	assert.Equal(t, float64(50), got.ProgressPercentage)
	// original untouched
	assert.Equal(t, int64(20), p.Milestones[0].ID)
	assert.Equal(t, float64(99), p.ProgressPercentage)
}
