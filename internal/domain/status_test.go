package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusNext(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusPending.Next())
	assert.Equal(t, StatusCompleted, StatusInProgress.Next())
	assert.Equal(t, StatusPending, StatusCompleted.Next())
	assert.Equal(t, StatusInProgress, TaskStatus("todo").Next(), "unknown status advances as pending")
}

func TestTaskStatusNext_ThreeStepsIsIdentity(t *testing.T) {
	for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusCompleted} {
		assert.Equal(t, s, s.Next().Next().Next(), s)
	}
}

func TestParseTaskStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, ParseTaskStatus("completed"))
	assert.Equal(t, StatusInProgress, ParseTaskStatus("in_progress"))
	assert.Equal(t, StatusPending, ParseTaskStatus(""))
	assert.Equal(t, StatusPending, ParseTaskStatus("todo"))
	assert.False(t, TaskStatus("done").Valid())
	assert.True(t, StatusInProgress.Valid())
}

func TestTaskWithStatus(t *testing.T) {
	orig := Task{ID: 3, Title: "read", Status: StatusPending}
	got := orig.WithStatus(StatusCompleted)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, StatusPending, orig.Status)
}

func TestDateJSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"due_date":"2025-03-04"}`), &task))
	assert.Equal(t, "2025-03-04", task.DueDate.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"due_date":"2025-03-04T10:00:00Z"}`), &task))
	assert.Equal(t, "2025-03-04", task.DueDate.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"due_date":null}`), &task))
	assert.True(t, task.DueDate.IsZero())

	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"March 4"}`), &task))
}
