package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/progress"
	"fitChallengeAPI/internal/session"
)

type ChallengeService struct {
	store  ChallengeStore
	cache  cache.Cache
	log    *zap.Logger
	origin string
	now    func() time.Time
}

func NewChallengeService(store ChallengeStore, c cache.Cache, log *zap.Logger, origin string) *ChallengeService {
	return &ChallengeService{
		store:  store,
		cache:  c,
		log:    log,
		origin: origin,
		now:    time.Now,
	}
}

func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	key := cache.ChallengesKey()

	var challenges []*challenge.Challenge
	if readView(ctx, s.cache, s.log, key, &challenges) {
		return challenges, nil
	}

	challenges, err := s.store.ListChallenges(ctx)
	if err != nil {
		return nil, err
	}

	writeView(ctx, s.cache, s.log, key, challenges, cache.TagChallenges)
	return challenges, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	key := cache.ChallengeKey(id)

	var c challenge.Challenge
	if readView(ctx, s.cache, s.log, key, &c) {
		return &c, nil
	}

	found, err := s.store.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}

	writeView(ctx, s.cache, s.log, key, found, cache.ChallengeTag(id))
	return found, nil
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, sess *session.Session, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c := &challenge.Challenge{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		CreatedBy:    sess.UserID,
		CreatedAt:    s.now(),
		Participants: []*challenge.Participant{},
	}

	if err := s.store.CreateChallenge(ctx, c); err != nil {
		return nil, err
	}

	invalidateViews(ctx, s.cache, s.log, cache.WriteCreateChallenge, c.ID, sess.UserID)
	s.log.Info("challenge created", zap.Stringer("challenge_id", c.ID), zap.String("user_id", sess.UserID))
	return c, nil
}

// Join links the caller to the challenge; the countdown starts today.
func (s *ChallengeService) Join(ctx context.Context, sess *session.Session, id uuid.UUID) (*challenge.Participant, error) {
	c, err := s.store.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	p := &challenge.Participant{
		ChallengeID: id,
		UserID:      sess.UserID,
		JoinedAt:    progress.Day(s.now()),
	}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		return nil, err
	}

	invalidateViews(ctx, s.cache, s.log, cache.WriteJoin, id, sess.UserID)
	return p, nil
}

// Leave removes the caller's link. Progress entries are kept.
func (s *ChallengeService) Leave(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	removed, err := s.store.RemoveParticipant(ctx, id, sess.UserID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotJoined
	}

	invalidateViews(ctx, s.cache, s.log, cache.WriteLeave, id, sess.UserID)
	return nil
}

func (s *ChallengeService) Share(ctx context.Context, id uuid.UUID) (*challenge.ShareResponse, error) {
	c, err := s.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}

	link := challenge.JoinLink(s.origin, c.ID)

	pngBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &challenge.ShareResponse{
		ChallengeID:  c.ID,
		Link:         link,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}
