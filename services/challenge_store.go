package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/database"
)

func (s *PostgresStore) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	query := `
	SELECT id, title, description, duration, created_by, created_at
	FROM challenges
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]*challenge.Challenge, 0)
	byID := make(map[uuid.UUID]*challenge.Challenge)
	for rows.Next() {
		c := &challenge.Challenge{Participants: []*challenge.Participant{}}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Duration, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	participants, err := s.queryParticipants(ctx, `
	SELECT challenge_id, user_id, joined_at
	FROM participants
	ORDER BY joined_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		if c, ok := byID[p.ChallengeID]; ok {
			c.Participants = append(c.Participants, p)
		}
	}

	return challenges, nil
}

func (s *PostgresStore) GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	query := `
	SELECT id, title, description, duration, created_by, created_at
	FROM challenges
	WHERE id = $1
	`

	c := &challenge.Challenge{}
	err := s.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description, &c.Duration, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	c.Participants, err = s.queryParticipants(ctx, `
	SELECT challenge_id, user_id, joined_at
	FROM participants
	WHERE challenge_id = $1
	ORDER BY joined_at ASC, user_id ASC
	`, id)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *PostgresStore) queryParticipants(ctx context.Context, query string, args ...any) ([]*challenge.Participant, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*challenge.Participant, 0)
	for rows.Next() {
		p := &challenge.Participant{}
		if err := rows.Scan(&p.ChallengeID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

func (s *PostgresStore) CreateChallenge(ctx context.Context, c *challenge.Challenge) error {
	query := `
	INSERT INTO challenges (id, title, description, duration, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := s.db.Exec(ctx, query, c.ID, c.Title, c.Description, c.Duration, c.CreatedBy, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (*challenge.Participant, error) {
	query := `
	SELECT challenge_id, user_id, joined_at
	FROM participants
	WHERE challenge_id = $1 AND user_id = $2
	`

	p := &challenge.Participant{}
	err := s.db.QueryRow(ctx, query, challengeID, userID).Scan(&p.ChallengeID, &p.UserID, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) AddParticipant(ctx context.Context, p *challenge.Participant) error {
	query := `
	INSERT INTO participants (challenge_id, user_id, joined_at)
	VALUES ($1, $2, $3::date)
	`

	if _, err := s.db.Exec(ctx, query, p.ChallengeID, p.UserID, p.JoinedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyJoined
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM participants WHERE challenge_id = $1 AND user_id = $2`, challengeID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
