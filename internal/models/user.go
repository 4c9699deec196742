package models

import "time"

// UserEngagementState is the per-user XP, level and daily-streak
// bookkeeping updated alongside every answer submission. The daily
// streak here is distinct from the per-item streak on the mastery
// record: it counts consecutive calendar days with at least one answer.
type UserEngagementState struct {
	UserID        string     `bson:"_id" json:"user_id"`
	TotalXP       int        `bson:"total_xp" json:"total_xp"`
	Level         int        `bson:"level" json:"level"`
	CurrentStreak int        `bson:"current_streak" json:"current_streak"`
	LongestStreak int        `bson:"longest_streak" json:"longest_streak"`
	LastStudyDate *time.Time `bson:"last_study_date" json:"last_study_date"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

// NewUserEngagementState returns the state for a user who has never studied.
func NewUserEngagementState(userID string) *UserEngagementState {
	return &UserEngagementState{
		UserID: userID,
		Level:  1,
	}
}
