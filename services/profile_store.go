package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fitChallengeAPI/internal/profile"
)

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	query := `
	SELECT id, display_name, gender, avatar_id, created_at, updated_at
	FROM profiles
	WHERE id = $1
	`

	p := &profile.Profile{}
	var gender string
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.DisplayName, &gender, &p.AvatarID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Gender = profile.Gender(gender)
	return p, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	query := `
	INSERT INTO profiles (id, display_name, gender, avatar_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	ON CONFLICT (id) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		gender = EXCLUDED.gender,
		avatar_id = EXCLUDED.avatar_id,
		updated_at = EXCLUDED.updated_at
	RETURNING id, display_name, gender, avatar_id, created_at, updated_at
	`

	saved := &profile.Profile{}
	var gender string
	err := s.db.QueryRow(ctx, query, p.ID, p.DisplayName, string(p.Gender), p.AvatarID, p.UpdatedAt).
		Scan(&saved.ID, &saved.DisplayName, &gender, &saved.AvatarID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	saved.Gender = profile.Gender(gender)
	return saved, nil
}
