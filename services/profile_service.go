package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/internal/session"
)

type ProfileService struct {
	store ProfileStore
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewProfileService(store ProfileStore, c cache.Cache, log *zap.Logger) *ProfileService {
	return &ProfileService{
		store: store,
		cache: c,
		log:   log,
		now:   time.Now,
	}
}

// GetProfile returns nil when the caller has not created a profile yet.
func (s *ProfileService) GetProfile(ctx context.Context, sess *session.Session) (*profile.Profile, error) {
	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err != nil || p == nil {
		return nil, err
	}

	p.AvatarURL = profile.AvatarURL(p.AvatarID, 0)
	return p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, sess *session.Session, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.store.UpsertProfile(ctx, &profile.Profile{
		ID:          sess.UserID,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		AvatarID:    req.AvatarID,
		UpdatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}
	saved.AvatarURL = profile.AvatarURL(saved.AvatarID, 0)

	invalidateViews(ctx, s.cache, s.log, cache.WriteProfile, uuid.Nil, sess.UserID)
	return saved, nil
}

// Avatars lists the avatar catalogue, optionally for one gender.
func (s *ProfileService) Avatars(gender profile.Gender, size int) ([]profile.Avatar, error) {
	if gender != "" && !gender.Valid() {
		return nil, fmt.Errorf("%w: gender must be 'male' or 'female'", ErrInvalidInput)
	}
	return profile.Avatars(gender, size), nil
}
