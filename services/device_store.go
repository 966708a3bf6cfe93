package services

import (
	"context"
	"fmt"
	"time"

	"fitChallengeAPI/internal/notification"
)

func (s *PostgresStore) UpsertDeviceToken(ctx context.Context, token *notification.DeviceToken) error {
	query := `
	INSERT INTO device_tokens (token, user_id, platform, last_used)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (token) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		platform = EXCLUDED.platform,
		last_used = EXCLUDED.last_used
	`

	_, err := s.db.Exec(ctx, query, token.Token, token.UserID, string(token.Platform), token.LastUsed)
	if err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReminderTokens(ctx context.Context, day time.Time) ([]notification.DeviceToken, error) {
	query := `
	SELECT DISTINCT d.token, d.user_id, d.platform, d.last_used
	FROM participants pa
	JOIN challenges c ON c.id = pa.challenge_id
	JOIN device_tokens d ON d.user_id = pa.user_id
	WHERE pa.joined_at <= $1::date
		AND pa.joined_at + c.duration > $1::date
		AND NOT EXISTS (
			SELECT 1 FROM progress p
			WHERE p.challenge_id = pa.challenge_id
				AND p.user_id = pa.user_id
				AND p.date = $1::date
		)
	`

	rows, err := s.db.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]notification.DeviceToken, 0)
	for rows.Next() {
		var t notification.DeviceToken
		var platform string
		if err := rows.Scan(&t.Token, &t.UserID, &platform, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		t.Platform = notification.Platform(platform)
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}

	return tokens, nil
}
