package domain

import (
	"sort"
	"time"
)

// Project is a user's learning plan. ProgressPercentage is derived from the
// task tree and cached on the project.
type Project struct {
	ID                     int64       `json:"id"`
	UserID                 int64       `json:"user_id"`
	Title                  string      `json:"title"`
	Description            *string     `json:"description"`
	Status                 string      `json:"status"`
	StartDate              Date        `json:"start_date"`
	EndDate                Date        `json:"end_date"`
	ProgressPercentage     float64     `json:"progress_percentage"`
	EstimatedDurationWeeks *int        `json:"estimated_duration_weeks"`
	WeeklyCommitmentHours  *string     `json:"weekly_commitment_hours"`
	DifficultyLevel        *string     `json:"difficulty_level"`
	Prerequisites          *string     `json:"prerequisites"`
	Tags                   *string     `json:"tags"`
	Milestones             []Milestone `json:"milestones"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

// Milestone is an ordered sub-goal of a project.
type Milestone struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
	Completed   bool    `json:"completed"`
	Tasks       []Task  `json:"tasks"`
}

// Recompute returns a copy of p with milestones sorted by Order and every
// derived value (milestone completion, progress) recalculated.
func (p Project) Recompute() Project {
	ms := make([]Milestone, len(p.Milestones))
	copy(ms, p.Milestones)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
	for i := range ms {
		ms[i].Completed = MilestoneCompleted(ms[i])
	}
	p.Milestones = ms
	p.ProgressPercentage = Progress(p)
	return p
}

// FindTask returns the task with the given id and the id of its milestone.
func (p Project) FindTask(taskID int64) (Task, int64, bool) {
	for _, m := range p.Milestones {
		for _, t := range m.Tasks {
			if t.ID == taskID {
				return t, m.ID, true
			}
		}
	}
	return Task{}, 0, false
}

// Merge overlays the non-zero fields of other onto m. Tasks are kept when the
// response does not carry them.
func (m Milestone) Merge(other Milestone) Milestone {
	if other.Title != "" {
		m.Title = other.Title
	}
	if other.Description != nil {
		m.Description = other.Description
	}
	if other.Order != 0 {
		m.Order = other.Order
	}
	if other.Tasks != nil {
		m.Tasks = other.Tasks
	}
	m.Completed = MilestoneCompleted(m)
	return m
}

// ProjectUpdate carries the fields of a PUT /plans/{id}/ request.
type ProjectUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *Date   `json:"start_date,omitempty"`
	EndDate     *Date   `json:"end_date,omitempty"`
}

// MilestoneUpdate carries the fields of a PUT /milestones/{id}/ request.
type MilestoneUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}
