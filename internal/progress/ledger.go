package progress

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Ledger is the expected day-by-day history of one participant before the
// missing days have been persisted. Entries are chronological; a placeholder
// for a missing day has uuid.Nil as its ID.
type Ledger struct {
	ChallengeID uuid.UUID
	UserID      string
	Entries     []*Entry
	Missing     []time.Time
}

// DaysElapsed counts the whole calendar days between the join day and today.
// Today itself is not counted so it stays loggable until the user acts.
func DaysElapsed(joined, now time.Time) int {
	days := math.Ceil(Day(now).Sub(Day(joined)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// Plan lays out min(daysElapsed, duration) days starting at the join day,
// keeping every existing entry and marking the rest as missing.
func Plan(challengeID uuid.UUID, userID string, existing []*Entry, joined time.Time, duration int, now time.Time) *Ledger {
	byDate := make(map[string]*Entry, len(existing))
	for _, e := range existing {
		key := e.DateKey()
		if _, ok := byDate[key]; !ok {
			byDate[key] = e
		}
	}

	days := DaysElapsed(joined, now)
	if duration < days {
		days = duration
	}
	if days < 0 {
		days = 0
	}

	ledger := &Ledger{
		ChallengeID: challengeID,
		UserID:      userID,
		Entries:     make([]*Entry, 0, days),
	}

	start := Day(joined)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		if e, ok := byDate[DateKey(date)]; ok {
			ledger.Entries = append(ledger.Entries, e)
			continue
		}

		ledger.Missing = append(ledger.Missing, date)
		ledger.Entries = append(ledger.Entries, NewMissed(challengeID, userID, date))
	}

	return ledger
}

// NewMissed builds an unsaved sentinel entry for date.
func NewMissed(challengeID uuid.UUID, userID string, date time.Time) *Entry {
	note := MissedNote
	return &Entry{
		ChallengeID: challengeID,
		UserID:      userID,
		Date:        Day(date),
		Completed:   false,
		Notes:       &note,
	}
}

// Resolve swaps every placeholder for the persisted entry of the same day and
// returns the ledger most recent day first. Placeholders with no persisted
// counterpart are dropped.
func (l *Ledger) Resolve(persisted []*Entry) []*Entry {
	byDate := make(map[string]*Entry, len(persisted))
	for _, e := range persisted {
		byDate[e.DateKey()] = e
	}

	out := make([]*Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.ID != uuid.Nil {
			out = append(out, e)
			continue
		}
		if saved, ok := byDate[e.DateKey()]; ok {
			out = append(out, saved)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
