package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/leaderboard"
	"fitChallengeAPI/internal/notification"
	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/internal/progress"
)

var errStoreDown = errors.New("store unavailable")

type participantKey struct {
	challengeID uuid.UUID
	userID      string
}

// memStore is an in-memory stand-in for PostgresStore that enforces the same
// uniqueness constraints.
type memStore struct {
	mu           sync.Mutex
	challenges   []*challenge.Challenge
	participants map[participantKey]*challenge.Participant
	entries      []*progress.Entry
	profiles     map[string]*profile.Profile
	devices      map[string]*notification.DeviceToken

	insertMissedErr error
	beforeInsert    func()
	insertCalls     int
}

func newMemStore() *memStore {
	return &memStore{
		participants: make(map[participantKey]*challenge.Participant),
		profiles:     make(map[string]*profile.Profile),
		devices:      make(map[string]*notification.DeviceToken),
	}
}

func (m *memStore) addChallenge(duration int) *challenge.Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &challenge.Challenge{
		ID:        uuid.New(),
		Title:     "plank",
		Duration:  duration,
		CreatedBy: "creator",
		CreatedAt: time.Now(),
	}
	m.challenges = append(m.challenges, c)
	return c
}

func (m *memStore) join(challengeID uuid.UUID, userID string, joinedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.participants[participantKey{challengeID, userID}] = &challenge.Participant{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    progress.Day(joinedAt),
	}
}

func (m *memStore) log(challengeID uuid.UUID, userID string, date time.Time, completed bool, notes *string) *progress.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &progress.Entry{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		UserID:      userID,
		Date:        progress.Day(date),
		Completed:   completed,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}
	m.entries = append(m.entries, e)
	return e
}

func (m *memStore) count(challengeID uuid.UUID, userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if e.ChallengeID == challengeID && e.UserID == userID {
			n++
		}
	}
	return n
}

func (m *memStore) findLocked(challengeID uuid.UUID, userID string, date time.Time) *progress.Entry {
	key := progress.DateKey(date)
	for _, e := range m.entries {
		if e.ChallengeID == challengeID && e.UserID == userID && e.DateKey() == key {
			return e
		}
	}
	return nil
}

func (m *memStore) participantsOfLocked(id uuid.UUID) []*challenge.Participant {
	out := make([]*challenge.Participant, 0)
	for k, p := range m.participants {
		if k.challengeID == id {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (m *memStore) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*challenge.Challenge, 0, len(m.challenges))
	for _, c := range m.challenges {
		cp := *c
		cp.Participants = m.participantsOfLocked(c.ID)
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.challenges {
		if c.ID == id {
			cp := *c
			cp.Participants = m.participantsOfLocked(id)
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateChallenge(ctx context.Context, c *challenge.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	m.challenges = append(m.challenges, &cp)
	return nil
}

func (m *memStore) GetParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (*challenge.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.participants[participantKey{challengeID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) AddParticipant(ctx context.Context, p *challenge.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := participantKey{p.ChallengeID, p.UserID}
	if _, ok := m.participants[key]; ok {
		return ErrAlreadyJoined
	}
	cp := *p
	m.participants[key] = &cp
	return nil
}

func (m *memStore) RemoveParticipant(ctx context.Context, challengeID uuid.UUID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := participantKey{challengeID, userID}
	if _, ok := m.participants[key]; !ok {
		return false, nil
	}
	delete(m.participants, key)
	return true, nil
}

func (m *memStore) ListEntries(ctx context.Context, challengeID uuid.UUID, userID string) ([]*progress.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*progress.Entry, 0)
	for _, e := range m.entries {
		if e.ChallengeID == challengeID && e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) EntriesOn(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*progress.Entry, 0)
	for _, d := range dates {
		if e := m.findLocked(challengeID, userID, d); e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) InsertMissed(ctx context.Context, challengeID uuid.UUID, userID string, dates []time.Time) ([]*progress.Entry, error) {
	if m.beforeInsert != nil {
		m.beforeInsert()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.insertMissedErr != nil {
		return nil, m.insertMissedErr
	}

	inserted := make([]*progress.Entry, 0, len(dates))
	for _, d := range dates {
		if m.findLocked(challengeID, userID, d) != nil {
			continue
		}
		e := progress.NewMissed(challengeID, userID, d)
		e.ID = uuid.New()
		e.CreatedAt = time.Now()
		m.entries = append(m.entries, e)
		inserted = append(inserted, e)
	}
	return inserted, nil
}

func (m *memStore) GetEntry(ctx context.Context, challengeID uuid.UUID, userID string, date time.Time) (*progress.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.findLocked(challengeID, userID, date), nil
}

func (m *memStore) InsertEntry(ctx context.Context, e *progress.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(e.ChallengeID, e.UserID, e.Date) != nil {
		return ErrAlreadyLogged
	}
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memStore) ChallengeRows(ctx context.Context, challengeID uuid.UUID) ([]leaderboard.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := 0
	for _, c := range m.challenges {
		if c.ID == challengeID {
			duration = c.Duration
		}
	}

	rows := make([]leaderboard.Row, 0)
	for _, e := range m.entries {
		if e.ChallengeID != challengeID {
			continue
		}
		row := leaderboard.Row{
			UserID:    e.UserID,
			Date:      e.Date,
			Completed: e.Completed,
			Duration:  duration,
		}
		if p, ok := m.profiles[e.UserID]; ok {
			row.DisplayName = p.DisplayName
			row.Gender = p.Gender
			row.AvatarID = p.AvatarID
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (m *memStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpsertProfile(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	if existing, ok := m.profiles[p.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = p.UpdatedAt
	}
	m.profiles[p.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpsertDeviceToken(ctx context.Context, token *notification.DeviceToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *token
	m.devices[token.Token] = &cp
	return nil
}

func (m *memStore) ReminderTokens(ctx context.Context, day time.Time) ([]notification.DeviceToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	durations := make(map[uuid.UUID]int)
	for _, c := range m.challenges {
		durations[c.ID] = c.Duration
	}

	due := make(map[string]bool)
	for k, p := range m.participants {
		end := p.JoinedAt.AddDate(0, 0, durations[k.challengeID])
		running := !p.JoinedAt.After(day) && end.After(day)
		if running && m.findLocked(k.challengeID, k.userID, day) == nil {
			due[k.userID] = true
		}
	}

	out := make([]notification.DeviceToken, 0)
	for _, d := range m.devices {
		if due[d.UserID] {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

type recordingPush struct {
	mu     sync.Mutex
	tokens []notification.DeviceToken
	data   map[string]string
	err    error
}

func (p *recordingPush) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tokens = append(p.tokens, tokens...)
	p.data = data
	return p.err
}

type recordingRevoker struct {
	revoked []string
	err     error
}

func (r *recordingRevoker) Revoke(ctx context.Context, sessionID string) error {
	r.revoked = append(r.revoked, sessionID)
	return r.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
