package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/leaderboard"
)

type LeaderboardService struct {
	rows       LeaderboardStore
	challenges ChallengeStore
	cache      cache.Cache
	log        *zap.Logger
}

func NewLeaderboardService(rows LeaderboardStore, challenges ChallengeStore, c cache.Cache, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		rows:       rows,
		challenges: challenges,
		cache:      c,
		log:        log,
	}
}

// Leaderboard ranks everyone with progress in the challenge, including users
// who have since left it.
func (s *LeaderboardService) Leaderboard(ctx context.Context, challengeID uuid.UUID) (*leaderboard.Leaderboard, error) {
	key := cache.LeaderboardKey(challengeID)

	var board leaderboard.Leaderboard
	if readView(ctx, s.cache, s.log, key, &board) {
		return &board, nil
	}

	c, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	rows, err := s.rows.ChallengeRows(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	entries := leaderboard.Aggregate(rows)
	result := &leaderboard.Leaderboard{
		ChallengeID: challengeID.String(),
		Entries:     entries,
		TotalUsers:  len(entries),
	}

	writeView(ctx, s.cache, s.log, key, result, cache.LeaderboardTag(challengeID), cache.TagProfiles)
	return result, nil
}
