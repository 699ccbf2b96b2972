package domain

import "time"

// User is the authenticated account returned by GET /users/me.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Checkin is a daily journal entry.
type Checkin struct {
	ID                  int64    `json:"id,omitempty"`
	Date                Date     `json:"checkin_date"`
	Mood                string   `json:"mood"`
	ReflectionNotes     string   `json:"reflection_notes"`
	AchievementsToday   string   `json:"achievements_today"`
	AIMotivationalQuote string   `json:"ai_motivational_quote,omitempty"`
	ProductivityScore   *float64 `json:"productivity_score"`
}

// DefaultProductivityScore seeds a blank check-in form.
const DefaultProductivityScore = 5.0

// BlankCheckin returns the form shown for a day without a check-in.
func BlankCheckin(d Date) Checkin {
	score := DefaultProductivityScore
	return Checkin{Date: d, ProductivityScore: &score}
}
