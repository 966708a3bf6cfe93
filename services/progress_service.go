package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/metrics"
	"fitChallengeAPI/internal/progress"
	"fitChallengeAPI/internal/session"
)

const MaxNotesLength = 500

type ProgressService struct {
	progress   ProgressStore
	challenges ChallengeStore
	cache      cache.Cache
	log        *zap.Logger
	now        func() time.Time
}

func NewProgressService(progress ProgressStore, challenges ChallengeStore, c cache.Cache, log *zap.Logger) *ProgressService {
	return &ProgressService{
		progress:   progress,
		challenges: challenges,
		cache:      c,
		log:        log,
		now:        time.Now,
	}
}

// Reconstruct returns the participant's gap-free ledger, most recent day
// first, persisting a missed sentinel for every elapsed day that has no entry.
// Today is never backfilled. A failed backfill is logged and the days it
// would have covered are left out of the result.
func (s *ProgressService) Reconstruct(ctx context.Context, challengeID uuid.UUID, userID string, joinedAt time.Time, duration int) ([]*progress.Entry, error) {
	existing, err := s.progress.ListEntries(ctx, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	ledger := progress.Plan(challengeID, userID, existing, joinedAt, duration, s.now())
	if len(ledger.Missing) == 0 {
		return ledger.Resolve(nil), nil
	}

	return ledger.Resolve(s.backfill(ctx, ledger)), nil
}

func (s *ProgressService) backfill(ctx context.Context, ledger *progress.Ledger) []*progress.Entry {
	log := s.log.With(
		zap.Stringer("challenge_id", ledger.ChallengeID),
		zap.String("user_id", ledger.UserID),
	)

	inserted, err := s.progress.InsertMissed(ctx, ledger.ChallengeID, ledger.UserID, ledger.Missing)
	if err != nil {
		metrics.BackfillFailures.Inc()
		log.Error("backfill insert failed", zap.Int("missing", len(ledger.Missing)), zap.Error(err))
		return nil
	}
	metrics.BackfillInserted.Add(float64(len(inserted)))

	persisted := inserted
	if skipped := notCovered(ledger.Missing, inserted); len(skipped) > 0 {
		// Another request wrote these days between our read and our insert.
		metrics.BackfillDuplicates.Add(float64(len(skipped)))
		log.Debug("backfill duplicates suppressed", zap.Int("count", len(skipped)))

		others, err := s.progress.EntriesOn(ctx, ledger.ChallengeID, ledger.UserID, skipped)
		if err != nil {
			log.Warn("failed to re-read concurrently written days", zap.Error(err))
		} else {
			persisted = append(persisted, others...)
		}
	}

	if len(inserted) > 0 {
		invalidateViews(ctx, s.cache, s.log, cache.WriteBackfill, ledger.ChallengeID, ledger.UserID)
		log.Info("backfilled missed days", zap.Int("inserted", len(inserted)))
	}

	return persisted
}

func notCovered(dates []time.Time, entries []*progress.Entry) []time.Time {
	have := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		have[e.DateKey()] = struct{}{}
	}

	out := make([]time.Time, 0)
	for _, d := range dates {
		if _, ok := have[progress.DateKey(d)]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// History reconstructs the caller's ledger for a challenge they are joined to.
func (s *ProgressService) History(ctx context.Context, sess *session.Session, challengeID uuid.UUID) ([]*progress.Entry, error) {
	key := cache.HistoryKey(challengeID, sess.UserID)

	var entries []*progress.Entry
	if readView(ctx, s.cache, s.log, key, &entries) {
		return entries, nil
	}

	c, p, err := s.membership(ctx, challengeID, sess.UserID)
	if err != nil {
		return nil, err
	}

	entries, err = s.Reconstruct(ctx, c.ID, p.UserID, p.JoinedAt, c.Duration)
	if err != nil {
		return nil, err
	}

	writeView(ctx, s.cache, s.log, key, entries, cache.HistoryTag(challengeID, sess.UserID))
	return entries, nil
}

func (s *ProgressService) membership(ctx context.Context, challengeID uuid.UUID, userID string) (*challenge.Challenge, *challenge.Participant, error) {
	c, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, ErrNotFound
	}

	p, err := s.challenges.GetParticipant(ctx, challengeID, userID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrNotJoined
	}

	return c, p, nil
}

// Today returns the caller's entry for today, or nil when nothing is logged.
func (s *ProgressService) Today(ctx context.Context, sess *session.Session, challengeID uuid.UUID) (*progress.Entry, error) {
	return s.progress.GetEntry(ctx, challengeID, sess.UserID, progress.Day(s.now()))
}

func (s *ProgressService) LogToday(ctx context.Context, sess *session.Session, challengeID uuid.UUID, req *progress.LogProgressRequest) (*progress.Entry, error) {
	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	c, p, err := s.membership(ctx, challengeID, sess.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := progress.Day(now)
	if today.After(progress.Day(c.EndDate(p.JoinedAt))) {
		return nil, fmt.Errorf("%w: challenge ended on %s", ErrInvalidInput, progress.DateKey(c.EndDate(p.JoinedAt)))
	}

	entry := &progress.Entry{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		UserID:      sess.UserID,
		Date:        today,
		Completed:   req.Completed,
		Notes:       notes,
		CreatedAt:   now,
	}

	if err := s.progress.InsertEntry(ctx, entry); err != nil {
		return nil, err
	}

	invalidateViews(ctx, s.cache, s.log, cache.WriteLogProgress, challengeID, sess.UserID)
	return entry, nil
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*notes)
	switch {
	case trimmed == "":
		return nil, nil
	case len([]rune(trimmed)) > MaxNotesLength:
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, MaxNotesLength)
	case strings.EqualFold(trimmed, progress.MissedNote):
		return nil, fmt.Errorf("%w: notes %q are reserved", ErrInvalidInput, progress.MissedNote)
	}
	return &trimmed, nil
}

// Sweep reconstructs the ledger of every participant of every challenge.
// A failure for one participant is logged and the sweep moves on.
func (s *ProgressService) Sweep(ctx context.Context) (int, error) {
	challenges, err := s.challenges.ListChallenges(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list challenges: %w", err)
	}

	swept := 0
	for _, c := range challenges {
		for _, p := range c.Participants {
			if err := ctx.Err(); err != nil {
				return swept, err
			}

			if _, err := s.Reconstruct(ctx, c.ID, p.UserID, p.JoinedAt, c.Duration); err != nil {
				s.log.Error("sweep reconstruction failed",
					zap.Stringer("challenge_id", c.ID),
					zap.String("user_id", p.UserID),
					zap.Error(err),
				)
				continue
			}
			swept++
		}
	}

	return swept, nil
}
