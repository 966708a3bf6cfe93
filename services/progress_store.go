package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fitChallengeAPI/internal/database"
	"fitChallengeAPI/internal/progress"
)

const progressColumns = `id, challenge_id, user_id, date, completed, notes, created_at`

func scanEntries(rows pgx.Rows) ([]*progress.Entry, error) {
	defer rows.Close()

	entries := make([]*progress.Entry, 0)
	for rows.Next() {
		e := &progress.Entry{}
		if err := rows.Scan(&e.ID, &e.ChallengeID, &e.UserID, &e.Date, &e.Completed, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, challengeID uuid.UUID, userID string) ([]*progress.Entry, error) {
	query := `
	SELECT ` + progressColumns + `
	FROM progress
	WHERE challenge_id = $1 AND user_id = $2
	ORDER BY date ASC
	`

	rows, err := s.db.Query(ctx, query, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	return scanEntries(rows)
}

func (s *PostgresStore) EntriesOn(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error) {
	query := `
	SELECT ` + progressColumns + `
	FROM progress
	WHERE challenge_id = $1 AND user_id = $2 AND date = ANY($3::date[])
	ORDER BY date ASC
	`

	rows, err := s.db.Query(ctx, query, challengeID, userID, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress by date: %w", err)
	}
	return scanEntries(rows)
}

func (s *PostgresStore) InsertMissed(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error) {
	if len(dates) == 0 {
		return []*progress.Entry{}, nil
	}

	query := `
	INSERT INTO progress (challenge_id, user_id, date, completed, notes)
	SELECT $1, $2, d, FALSE, $4
	FROM unnest($3::date[]) AS d
	ON CONFLICT (challenge_id, user_id, date) DO NOTHING
	RETURNING ` + progressColumns

	rows, err := s.db.Query(ctx, query, challengeID, userID, dates, progress.MissedNote)
	if err != nil {
		return nil, fmt.Errorf("failed to backfill progress: %w", err)
	}
	return scanEntries(rows)
}

func (s *PostgresStore) GetEntry(ctx context.Context, challengeID uuid.UUID, userID string, date time.Time) (*progress.Entry, error) {
	query := `
	SELECT ` + progressColumns + `
	FROM progress
	WHERE challenge_id = $1 AND user_id = $2 AND date = $3::date
	`

	e := &progress.Entry{}
	err := s.db.QueryRow(ctx, query, challengeID, userID, date).
		Scan(&e.ID, &e.ChallengeID, &e.UserID, &e.Date, &e.Completed, &e.Notes, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress entry: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) InsertEntry(ctx context.Context, e *progress.Entry) error {
	query := `
	INSERT INTO progress (id, challenge_id, user_id, date, completed, notes, created_at)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query, e.ID, e.ChallengeID, e.UserID, e.Date, e.Completed, e.Notes, e.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyLogged
		}
		return fmt.Errorf("failed to insert progress entry: %w", err)
	}
	return nil
}
