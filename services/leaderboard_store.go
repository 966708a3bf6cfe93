package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fitChallengeAPI/internal/leaderboard"
	"fitChallengeAPI/internal/profile"
)

func (s *PostgresStore) ChallengeRows(ctx context.Context, challengeID uuid.UUID) ([]leaderboard.Row, error) {
	query := `
	SELECT
		p.user_id,
		p.date,
		p.completed,
		c.duration,
		COALESCE(pr.display_name, ''),
		COALESCE(pr.gender, ''),
		COALESCE(pr.avatar_id, '')
	FROM progress p
	JOIN challenges c ON c.id = p.challenge_id
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE p.challenge_id = $1
	ORDER BY p.date ASC, p.created_at ASC
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard rows: %w", err)
	}
	defer rows.Close()

	out := make([]leaderboard.Row, 0)
	for rows.Next() {
		var row leaderboard.Row
		var gender string
		if err := rows.Scan(&row.UserID, &row.Date, &row.Completed, &row.Duration, &row.DisplayName, &gender, &row.AvatarID); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		row.Gender = profile.Gender(gender)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return out, nil
}
