package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/internal/session"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	sess := &session.Session{UserID: "user-1"}

	t.Run("missing profile is nil", func(t *testing.T) {
		s := NewProfileService(newMemStore(), cache.NewMemory(time.Minute), zap.NewNop())

		p, err := s.GetProfile(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("upsert then read", func(t *testing.T) {
		s := NewProfileService(newMemStore(), cache.NewMemory(time.Minute), zap.NewNop())
		s.now = fixedClock(testNow)

		saved, err := s.UpdateProfile(ctx, sess, &profile.UpdateProfileRequest{
			DisplayName: "  Sam ",
			Gender:      profile.GenderMale,
			AvatarID:    "m2",
		})
		require.NoError(t, err)
		assert.Equal(t, "Sam", saved.DisplayName)
		assert.Contains(t, saved.AvatarURL, "w_65,h_65")

		s.now = fixedClock(testNow.Add(time.Hour))
		_, err = s.UpdateProfile(ctx, sess, &profile.UpdateProfileRequest{
			DisplayName: "Samuel",
			Gender:      profile.GenderMale,
			AvatarID:    "m4",
		})
		require.NoError(t, err)

		got, err := s.GetProfile(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Samuel", got.DisplayName)
		assert.Equal(t, "m4", got.AvatarID)
		assert.Equal(t, testNow, got.CreatedAt)
		assert.Equal(t, profile.AvatarURL("m4", 0), got.AvatarURL)
	})

	t.Run("rejects invalid profile", func(t *testing.T) {
		s := NewProfileService(newMemStore(), cache.NewMemory(time.Minute), zap.NewNop())

		_, err := s.UpdateProfile(ctx, sess, &profile.UpdateProfileRequest{
			DisplayName: "Sam",
			Gender:      "other",
			AvatarID:    "m1",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("avatars by gender", func(t *testing.T) {
		s := NewProfileService(newMemStore(), cache.NewMemory(time.Minute), zap.NewNop())

		female, err := s.Avatars(profile.GenderFemale, 100)
		require.NoError(t, err)
		assert.Len(t, female, 5)
		for _, a := range female {
			assert.Equal(t, profile.GenderFemale, a.Gender)
			assert.Contains(t, a.URL, "w_100,h_100")
		}

		_, err = s.Avatars("robot", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
