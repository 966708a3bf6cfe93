package challenge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLength = 120
	MinDuration    = 1
	MaxDuration    = 365
)

type Challenge struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description" db:"description"`
	Duration     int            `json:"duration" db:"duration"`
	CreatedBy    string         `json:"created_by" db:"created_by"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	Participants []*Participant `json:"participants"`
}

// Participant is the join link between a user and a challenge. Its presence
// means the user is currently joined.
type Participant struct {
	ChallengeID uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}

func (c *Challenge) Participant(userID string) *Participant {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// EndDate is the last day a participant who joined on joinedAt can log.
func (c *Challenge) EndDate(joinedAt time.Time) time.Time {
	return joinedAt.AddDate(0, 0, c.Duration-1)
}

type CreateChallengeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

func (r *CreateChallengeRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)

	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(r.Title)) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	if r.Duration < MinDuration || r.Duration > MaxDuration {
		return fmt.Errorf("duration must be between %d and %d days", MinDuration, MaxDuration)
	}
	return nil
}

type ShareResponse struct {
	ChallengeID  uuid.UUID `json:"challenge_id"`
	Link         string    `json:"link"`
	QrCodeBase64 string    `json:"qr_code_base64"`
}

// JoinLink is the public invite URL for a challenge.
func JoinLink(origin string, id uuid.UUID) string {
	return fmt.Sprintf("%s/challenges/join/%s", strings.TrimRight(origin, "/"), id)
}
