package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Cache stores derived read views and drops them by tag when a write makes
// them stale. Values are JSON encoded.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
}

const (
	TagChallenges = "challenges"
	TagProfiles   = "profiles"
)

func ChallengeTag(id uuid.UUID) string {
	return fmt.Sprintf("challenge:%s", id)
}

func LeaderboardTag(challengeID uuid.UUID) string {
	return fmt.Sprintf("leaderboard:%s", challengeID)
}

func HistoryTag(challengeID uuid.UUID, userID string) string {
	return fmt.Sprintf("history:%s:%s", challengeID, userID)
}

func ChallengesKey() string { return "view:challenges" }

func ChallengeKey(id uuid.UUID) string { return "view:" + ChallengeTag(id) }

func LeaderboardKey(challengeID uuid.UUID) string { return "view:" + LeaderboardTag(challengeID) }

func HistoryKey(challengeID uuid.UUID, userID string) string {
	return "view:" + HistoryTag(challengeID, userID)
}

type Write int

const (
	WriteLogProgress Write = iota
	WriteBackfill
	WriteJoin
	WriteLeave
	WriteCreateChallenge
	WriteProfile
)

func (w Write) String() string {
	switch w {
	case WriteLogProgress:
		return "log_progress"
	case WriteBackfill:
		return "backfill"
	case WriteJoin:
		return "join"
	case WriteLeave:
		return "leave"
	case WriteCreateChallenge:
		return "create_challenge"
	case WriteProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// TagsFor is the invalidation map: the derived views a write makes stale.
func TagsFor(w Write, challengeID uuid.UUID, userID string) []string {
	switch w {
	case WriteLogProgress, WriteBackfill:
		return []string{LeaderboardTag(challengeID), HistoryTag(challengeID, userID)}
	case WriteJoin, WriteLeave:
		return []string{
			TagChallenges,
			ChallengeTag(challengeID),
			LeaderboardTag(challengeID),
			HistoryTag(challengeID, userID),
		}
	case WriteCreateChallenge:
		return []string{TagChallenges}
	case WriteProfile:
		return []string{TagProfiles}
	default:
		return nil
	}
}
