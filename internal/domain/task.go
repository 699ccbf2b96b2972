package domain

// Priority of a task as shown on the dashboard.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes a wire value. Anything unrecognized becomes medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// Task is the atomic unit of work inside a milestone.
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	DueDate        Date       `json:"due_date"`
	Priority       Priority   `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	Status         TaskStatus `json:"status"`
	AISuggestion   *string    `json:"ai_suggestion"`
}

// WithStatus returns a copy of t with its status replaced.
func (t Task) WithStatus(s TaskStatus) Task {
	t.Status = s
	return t
}

// Merge overlays the non-zero fields of other onto t, keeping t's id.
// Used when a partial server response must be folded into a cached task.
func (t Task) Merge(other Task) Task {
	if other.Title != "" {
		t.Title = other.Title
	}
	if other.Description != nil {
		t.Description = other.Description
	}
	if !other.DueDate.IsZero() {
		t.DueDate = other.DueDate
	}
	if other.Priority != "" {
		t.Priority = other.Priority
	}
	if other.EstimatedHours != nil {
		t.EstimatedHours = other.EstimatedHours
	}
	if other.Status != "" {
		t.Status = other.Status
	}
	if other.AISuggestion != nil {
		t.AISuggestion = other.AISuggestion
	}
	return t
}

// TaskUpdate carries the fields of a PUT /tasks/{id}/ request.
// Nil fields are left out of the request body.
type TaskUpdate struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	DueDate        *Date       `json:"due_date,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`
	Status         *TaskStatus `json:"status,omitempty"`
}

// Bucket names a due-date grouping served by GET /tasks/{bucket}.
type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketTomorrow Bucket = "tomorrow"
	BucketUpcoming Bucket = "upcoming"
)

// Buckets lists the by-date groupings in display order.
var Buckets = []Bucket{BucketToday, BucketTomorrow, BucketUpcoming}
