package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/leaderboard"
	"fitChallengeAPI/internal/notification"
	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/internal/progress"
)

// Lookups that find nothing return a nil value and a nil error.

type ChallengeStore interface {
	ListChallenges(ctx context.Context) ([]*challenge.Challenge, error)
	GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error)
	CreateChallenge(ctx context.Context, c *challenge.Challenge) error
	GetParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (*challenge.Participant, error)
	// AddParticipant returns ErrAlreadyJoined when the link exists.
	AddParticipant(ctx context.Context, p *challenge.Participant) error
	// RemoveParticipant reports whether a link was deleted.
	RemoveParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (bool, error)
}

type ProgressStore interface {
	// ListEntries returns a participant's entries in ascending date order.
	ListEntries(ctx context.Context, challengeID uuid.UUID, userID string) ([]*progress.Entry, error)
	// EntriesOn returns the participant's entries on the given days.
	EntriesOn(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error)
	// InsertMissed writes one missed sentinel per date in a single statement.
	// Dates that already have an entry are skipped and not returned.
	InsertMissed(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error)
	GetEntry(ctx context.Context, challengeID uuid.UUID, userID string, date time.Time) (*progress.Entry, error)
	// InsertEntry returns ErrAlreadyLogged when the day already has an entry.
	InsertEntry(ctx context.Context, e *progress.Entry) error
}

type LeaderboardStore interface {
	// ChallengeRows returns every entry of a challenge with its owner's
	// profile and the challenge duration, in ascending date order.
	ChallengeRows(ctx context.Context, challengeID uuid.UUID) ([]leaderboard.Row, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpsertProfile(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
}

type DeviceStore interface {
	UpsertDeviceToken(ctx context.Context, token *notification.DeviceToken) error
	// ReminderTokens returns the devices of participants of running
	// challenges who have no entry for day.
	ReminderTokens(ctx context.Context, day time.Time) ([]notification.DeviceToken, error)
}
