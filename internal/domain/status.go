package domain

// TaskStatus is the lifecycle state of a task as the API reports it.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus maps a wire value to a TaskStatus.
// Unknown or empty values are treated as pending.
func ParseTaskStatus(s string) TaskStatus {
	switch TaskStatus(s) {
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next advances the status along the cycle pending -> in_progress -> completed -> pending.
func (s TaskStatus) Next() TaskStatus {
	switch ParseTaskStatus(string(s)) {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

func (s TaskStatus) String() string { return string(s) }
