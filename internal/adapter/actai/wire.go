package actai

import (
	"encoding/json"
	"strings"
	"time"

	"actai-dashboard/internal/domain"
)

// rawTask mirrors the task JSON of the API. The backend has shipped both
// estimated_hours and estimated_duration, and priority as either a name or an
// integer 0..5, so those fields are decoded loosely.
type rawTask struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Description       *string         `json:"description"`
	DueDate           domain.Date     `json:"due_date"`
	Priority          json.RawMessage `json:"priority"`
	EstimatedHours    *float64        `json:"estimated_hours"`
	EstimatedDuration *float64        `json:"estimated_duration"`
	Status            string          `json:"status"`
	AISuggestion      *string         `json:"ai_suggestion"`
}

type rawMilestone struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Order       int       `json:"order"`
	Tasks       []rawTask `json:"tasks"`
}

type rawProject struct {
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"user_id"`
	Title                  string          `json:"title"`
	Description            *string         `json:"description"`
	DescriptionGoal        *string         `json:"description_goal"`
	Status                 string          `json:"status"`
	StartDate              domain.Date     `json:"start_date"`
	EndDate                domain.Date     `json:"end_date"`
	TargetDate             domain.Date     `json:"target_date"`
	ProgressPercentage     float64         `json:"progress_percentage"`
	EstimatedDurationWeeks *int            `json:"estimated_duration_weeks"`
	WeeklyCommitmentHours  json.RawMessage `json:"weekly_commitment_hours"`
	DifficultyLevel        *string         `json:"difficulty_level"`
	Prerequisites          json.RawMessage `json:"prerequisites"`
	Tags                   json.RawMessage `json:"tags"`
	Milestones             []rawMilestone  `json:"milestones"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

type rawCheckin struct {
	ID                  int64       `json:"id"`
	CheckinDate         domain.Date `json:"checkin_date"`
	Mood                *string     `json:"mood"`
	ReflectionNotes     *string     `json:"reflection_notes"`
	AchievementsToday   *string     `json:"achievements_today"`
	AIMotivationalQuote *string     `json:"ai_motivational_quote"`
	ProductivityScore   *float64    `json:"productivity_score"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (r rawTask) toDomain() domain.Task {
	hours := r.EstimatedHours
	if hours == nil {
		hours = r.EstimatedDuration
	}
	return domain.Task{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		DueDate:        r.DueDate,
		Priority:       decodePriority(r.Priority),
		EstimatedHours: hours,
		Status:         domain.ParseTaskStatus(r.Status),
		AISuggestion:   r.AISuggestion,
	}
}

func (r rawMilestone) toDomain() domain.Milestone {
	m := domain.Milestone{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Order:       r.Order,
	}
	if r.Tasks != nil {
		m.Tasks = mapTasks(r.Tasks)
	}
	m.Completed = domain.MilestoneCompleted(m)
	return m
}

func (r rawProject) toDomain() domain.Project {
	p := domain.Project{
		ID:                     r.ID,
		UserID:                 r.UserID,
		Title:                  r.Title,
		Description:            r.Description,
		Status:                 r.Status,
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		ProgressPercentage:     r.ProgressPercentage,
		EstimatedDurationWeeks: r.EstimatedDurationWeeks,
		WeeklyCommitmentHours:  flexString(r.WeeklyCommitmentHours),
		DifficultyLevel:        r.DifficultyLevel,
		Prerequisites:          flexString(r.Prerequisites),
		Tags:                   flexString(r.Tags),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if p.Description == nil {
		p.Description = r.DescriptionGoal
	}
	if p.EndDate.IsZero() {
		p.EndDate = r.TargetDate
	}
	if r.Milestones != nil {
		p.Milestones = make([]domain.Milestone, 0, len(r.Milestones))
		for _, m := range r.Milestones {
			p.Milestones = append(p.Milestones, m.toDomain())
		}
	}
	return p
}

func (r rawCheckin) toDomain() domain.Checkin {
	return domain.Checkin{
		ID:                  r.ID,
		Date:                r.CheckinDate,
		Mood:                deref(r.Mood),
		ReflectionNotes:     deref(r.ReflectionNotes),
		AchievementsToday:   deref(r.AchievementsToday),
		AIMotivationalQuote: deref(r.AIMotivationalQuote),
		ProductivityScore:   r.ProductivityScore,
	}
}

func mapTasks(raw []rawTask) []domain.Task {
	out := make([]domain.Task, 0, len(raw))
	for _, t := range raw {
		out = append(out, t.toDomain())
	}
	return out
}

// decodePriority maps a priority name or level. Levels 1-2 are low, 4-5 are
// high; 0 means unset and, like 3 or anything unknown, reads as medium.
func decodePriority(raw json.RawMessage) domain.Priority {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.ParsePriority(strings.ToLower(s))
	}
	var level int
	if err := json.Unmarshal(raw, &level); err == nil {
		switch {
		case level == 1 || level == 2:
			return domain.PriorityLow
		case level == 4 || level == 5:
			return domain.PriorityHigh
		}
	}
	return domain.PriorityMedium
}

// flexString accepts a JSON string, a list of strings (joined with ", ") or a
// number, and returns nil for null or absent values.
func flexString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		joined := strings.Join(list, ", ")
		return &joined
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n.String()
		return &v
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
