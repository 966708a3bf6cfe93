package progress

import (
	"time"

	"github.com/google/uuid"
)

// MissedNote marks an entry the system synthesized for a day nobody logged.
// An explicit failure logged by the user never carries this note.
const MissedNote = "missed"

const DateLayout = "2006-01-02"

type Entry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChallengeID uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Date        time.Time `json:"date" db:"date"`
	Completed   bool      `json:"completed" db:"completed"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsBackfill reports whether the entry is a system-inferred miss.
func (e *Entry) IsBackfill() bool {
	return !e.Completed && e.Notes != nil && *e.Notes == MissedNote
}

func (e *Entry) DateKey() string {
	return DateKey(e.Date)
}

type LogProgressRequest struct {
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes,omitempty"`
}

// Day truncates t to the start of its calendar day in UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func DateKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
