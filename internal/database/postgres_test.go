package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	conflict := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "progress_one_entry_per_day"}

	assert.True(t, IsUniqueViolation(conflict))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert progress: %w", conflict)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSchemaDeclaresOneEntryPerDay(t *testing.T) {
	assert.Contains(t, schema, "UNIQUE (challenge_id, user_id, date)")
	assert.Contains(t, schema, "PRIMARY KEY (challenge_id, user_id)")
}
