package leaderboard

import (
	"time"

	"fitChallengeAPI/internal/profile"
)

// Row is one progress entry of a challenge joined with its owner's profile
// and the challenge duration.
type Row struct {
	UserID      string
	Date        time.Time
	Completed   bool
	Duration    int
	DisplayName string
	Gender      profile.Gender
	AvatarID    string
}

type ProfileSummary struct {
	DisplayName string         `json:"display_name"`
	Gender      profile.Gender `json:"gender,omitempty"`
	AvatarID    string         `json:"avatar_id"`
	AvatarURL   string         `json:"avatar_url"`
}

type LeaderboardEntry struct {
	Rank              int            `json:"rank"`
	UserID            string         `json:"user_id"`
	Profile           ProfileSummary `json:"profile"`
	CompletedCount    int            `json:"completed_count"`
	TotalDays         int            `json:"total_days"`
	CompletionRate    float64        `json:"completion_rate"`
	Streak            int            `json:"streak"`
	LastCompletedDate *time.Time     `json:"last_completed_date"`
}

type Leaderboard struct {
	ChallengeID string              `json:"challenge_id"`
	Entries     []*LeaderboardEntry `json:"entries"`
	TotalUsers  int                 `json:"total_users"`
}

// Rate is the completion rate, zero when no days are counted.
func (e *LeaderboardEntry) Rate() float64 {
	if e.TotalDays <= 0 {
		return 0
	}
	return float64(e.CompletedCount) / float64(e.TotalDays)
}
