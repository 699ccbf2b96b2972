package actai

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

type failingToken struct{ err error }

func (f failingToken) Token() (string, error) { return "", f.err }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", staticToken("tok"), zap.NewNop(), opts...)
}

func TestSetTaskStatus_SendsPatchWithQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tasks/7/status", r.URL.Path)
		assert.Equal(t, "in_progress", r.URL.Query().Get("status"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"id":7,"title":"Write intro","status":"in_progress","priority":"HIGH","estimated_duration":1.5}`)
	})

	task, err := c.SetTaskStatus(t.Context(), 7, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, domain.StatusInProgress, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	require.NotNil(t, task.EstimatedHours)
	assert.InDelta(t, 1.5, *task.EstimatedHours, 1e-9)
}

func TestSetTaskStatus_RejectsInvalidStatusWithoutRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.SetTaskStatus(t.Context(), 1, domain.TaskStatus("done"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.False(t, called)
}

func TestListPlans_MapsTree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/", r.URL.Path)
		_, _ = io.WriteString(w, `[{
			"id": 1, "title": "Learn Go", "description_goal": "ship a CLI",
			"target_date": "2026-12-01", "tags": ["go", "cli"], "prerequisites": "none",
			"milestones": [
				{"id": 10, "title": "Basics", "order": 1, "tasks": [
					{"id": 1, "title": "Tour", "status": "completed", "due_date": "2026-10-14T09:00:00Z"},
					{"id": 2, "title": "Effective Go", "status": "weird"}
				]},
				{"id": 11, "title": "Empty", "order": 2}
			]
		}]`)
	})

	plans, err := c.ListPlans(t.Context())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p := plans[0]
	require.NotNil(t, p.Description)
	assert.Equal(t, "ship a CLI", *p.Description)
	assert.Equal(t, "2026-12-01", p.EndDate.String())
	require.NotNil(t, p.Tags)
	assert.Equal(t, "go, cli", *p.Tags)
	require.Len(t, p.Milestones, 2)
	tasks := p.Milestones[0].Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, "2026-10-14", tasks[0].DueDate.String())
	assert.Equal(t, domain.StatusPending, tasks[1].Status)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)
	assert.False(t, p.Milestones[0].Completed)
	assert.False(t, p.Milestones[1].Completed)
}

func TestDecodePriority(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Priority
	}{
		{`"high"`, domain.PriorityHigh},
		{`"Low"`, domain.PriorityLow},
		{`"urgent"`, domain.PriorityMedium},
		{`0`, domain.PriorityMedium},
		{`1`, domain.PriorityLow},
		{`2`, domain.PriorityLow},
		{`3`, domain.PriorityMedium},
		{`4`, domain.PriorityHigh},
		{`5`, domain.PriorityHigh},
		{`9`, domain.PriorityMedium},
		{`null`, domain.PriorityMedium},
		{``, domain.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, decodePriority(json.RawMessage(tt.raw)))
		})
	}
}

func TestListTasks_NumericPriority(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"title":"a","status":"pending","priority":5},{"id":2,"title":"b","status":"pending","priority":1}]`)
	})
	tasks, err := c.ListTasks(t.Context(), domain.BucketToday)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, domain.PriorityLow, tasks[1].Priority)
}

func TestAPIError_DetailAndIs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks/today":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
		case "/api/daily-checkin/2026-10-14":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Checkin not found"}`)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"detail":[{"msg":"field required"},{"msg":"value is not a valid integer"}]}`)
		}
	})

	_, err := c.ListTasks(t.Context(), domain.BucketToday)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Could not validate credentials", apiErr.Message())

	_, err = c.GetCheckin(t.Context(), domain.NewDate(mustTime(t, "2026-10-14")))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.ListInProgress(t.Context())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "field required; value is not a valid integer", apiErr.Detail)
}

func TestMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": "not-a-number"`)
	})
	_, err := c.UpdateTask(t.Context(), 3, domain.TaskUpdate{})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, staticToken("tok"), nil)

	_, err := c.ListPlans(t.Context())
	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "GET /plans/", te.Endpoint)
}

func TestTokenSourceErrorStopsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, failingToken{err: domain.ErrSessionExpired}, nil)

	_, err := c.Me(t.Context())
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.False(t, called)

	c = NewClient(srv.URL, nil, nil)
	_, err = c.Me(t.Context())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestLogin_IsPublic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body["username"])
		_, _ = io.WriteString(w, `{"access_token":"jwt","token_type":"bearer"}`)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, nil, nil)

	tok, err := c.Login(t.Context(), "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)
}

func TestRegister_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	_, err := c.Register(t.Context(), "ada", "ada@example.com", "longenough")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestSpeechToText_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/audio/stt/", r.URL.Path)
		f, hdr, err := r.FormFile("audio_file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "note.webm", hdr.Filename)
		b, _ := io.ReadAll(f)
		assert.Equal(t, "RIFF", string(b))
		_, _ = io.WriteString(w, `{"processed_text":"learn rust in a month"}`)
	})

	text, err := c.SpeechToText(t.Context(), "note.webm", strings.NewReader("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "learn rust in a month", text)
}

func TestTextToSpeech_ReturnsBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "female", body["gender"])
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte{0xff, 0xfb, 0x90})
	})

	audio, err := c.TextToSpeech(t.Context(), "hello", "female")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfb, 0x90}, audio)
}

func TestSaveCheckin_MethodSelectsCreateOrUpdate(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/daily-checkin", r.URL.Path)
		methods = append(methods, r.Method)
		_, _ = io.WriteString(w, `{"id":5,"checkin_date":"2026-10-14","mood":"great","productivity_score":8}`)
	})
	in := domain.BlankCheckin(domain.NewDate(mustTime(t, "2026-10-14")))

	out, err := c.CreateCheckin(t.Context(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Equal(t, "great", out.Mood)

	_, err = c.UpdateCheckin(t.Context(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPost, http.MethodPut}, methods)
}

func TestMetricsObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}, WithMetrics(NewMetrics(reg)), WithRateLimit(100, 2))

	_, err := c.ListTasks(t.Context(), domain.BucketTomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "actai_client_requests_total"))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET /tasks/tomorrow", "ok")), 0)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return tm
}
