package services

import "github.com/jackc/pgx/v5/pgxpool"

// PostgresStore implements every store interface on a pgx pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

var (
	_ ChallengeStore   = (*PostgresStore)(nil)
	_ ProgressStore    = (*PostgresStore)(nil)
	_ LeaderboardStore = (*PostgresStore)(nil)
	_ ProfileStore     = (*PostgresStore)(nil)
	_ DeviceStore      = (*PostgresStore)(nil)
)
