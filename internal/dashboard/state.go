// Package dashboard holds the client-side state of the planning dashboard:
// the project tree, the by-date and in-progress views, the current selection
// and per-task request fencing. State is never mutated in place; every change
// produces new slices and structs, so a snapshot handed to a reader stays valid
// for as long as the reader holds it.
package dashboard

import "actai-dashboard/internal/domain"

// View is the screen the dashboard is showing.
type View string

const (
	ViewProjects   View = "projects"
	ViewMilestones View = "milestones"
	ViewMilestone  View = "milestone"
	ViewTask       View = "task"
)

// Buckets groups tasks by due-date proximity.
type Buckets struct {
	Today    []domain.Task `json:"today"`
	Tomorrow []domain.Task `json:"tomorrow"`
	Upcoming []domain.Task `json:"upcoming"`
}

// Get returns the list for b.
func (b Buckets) Get(bucket domain.Bucket) []domain.Task {
	switch bucket {
	case domain.BucketToday:
		return b.Today
	case domain.BucketTomorrow:
		return b.Tomorrow
	case domain.BucketUpcoming:
		return b.Upcoming
	}
	return nil
}

// With returns a copy of b with the list for bucket replaced.
func (b Buckets) With(bucket domain.Bucket, list []domain.Task) Buckets {
	switch bucket {
	case domain.BucketToday:
		b.Today = list
	case domain.BucketTomorrow:
		b.Tomorrow = list
	case domain.BucketUpcoming:
		b.Upcoming = list
	}
	return b
}

func (b Buckets) find(taskID int64) (domain.Task, bool) {
	for _, list := range [][]domain.Task{b.Today, b.Tomorrow, b.Upcoming} {
		if t, ok := findTask(list, taskID); ok {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (b Buckets) mapTask(taskID int64, fn func(domain.Task) domain.Task) Buckets {
	return Buckets{
		Today:    mapTask(b.Today, taskID, fn),
		Tomorrow: mapTask(b.Tomorrow, taskID, fn),
		Upcoming: mapTask(b.Upcoming, taskID, fn),
	}
}

// State is an immutable snapshot of the dashboard.
type State struct {
	Projects          []domain.Project  `json:"projects"`
	Buckets           Buckets           `json:"buckets"`
	InProgress        []domain.Task     `json:"in_progress"`
	SelectedProject   *domain.Project   `json:"selected_project,omitempty"`
	SelectedMilestone *domain.Milestone `json:"selected_milestone,omitempty"`
	SelectedTask      *domain.Task      `json:"selected_task,omitempty"`
	ExpandedMilestone int64             `json:"expanded_milestone,omitempty"`
	View              View              `json:"view"`
	Updating          []int64           `json:"updating"`
	Error             string            `json:"error,omitempty"`
}

// Project returns the project with the given id.
func (s State) Project(id int64) (domain.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// IsUpdating reports whether a request is in flight for the task.
func (s State) IsUpdating(taskID int64) bool {
	for _, id := range s.Updating {
		if id == taskID {
			return true
		}
	}
	return false
}

func findTask(list []domain.Task, taskID int64) (domain.Task, bool) {
	for _, t := range list {
		if t.ID == taskID {
			return t, true
		}
	}
	return domain.Task{}, false
}

// mapTask returns list unchanged when it does not contain taskID, otherwise a
// new slice with that task transformed.
func mapTask(list []domain.Task, taskID int64, fn func(domain.Task) domain.Task) []domain.Task {
	idx := -1
	for i, t := range list {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}
	out := make([]domain.Task, len(list))
	for i, t := range list {
		if t.ID == taskID {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func withoutTask(list []domain.Task, taskID int64) []domain.Task {
	if _, ok := findTask(list, taskID); !ok {
		return list
	}
	out := make([]domain.Task, 0, len(list))
	for _, t := range list {
		if t.ID != taskID {
			out = append(out, t)
		}
	}
	return out
}
