package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/internal/progress"
	"fitChallengeAPI/internal/session"
)

func newChallengeService(store ChallengeStore, c cache.Cache) *ChallengeService {
	s := NewChallengeService(store, c, zap.NewNop(), "https://fit.example.com/")
	s.now = fixedClock(testNow)
	return s
}

func TestCreateChallenge(t *testing.T) {
	ctx := context.Background()
	sess := &session.Session{UserID: "user-1"}

	t.Run("validates input", func(t *testing.T) {
		s := newChallengeService(newMemStore(), cache.NewMemory(time.Minute))

		_, err := s.CreateChallenge(ctx, sess, &challenge.CreateChallengeRequest{Title: "  ", Duration: 10})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = s.CreateChallenge(ctx, sess, &challenge.CreateChallengeRequest{Title: "Run", Duration: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("new challenge shows up in a cached list", func(t *testing.T) {
		store := newMemStore()
		s := newChallengeService(store, cache.NewMemory(time.Minute))

		list, err := s.ListChallenges(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		created, err := s.CreateChallenge(ctx, sess, &challenge.CreateChallengeRequest{Title: " 30 day squats ", Duration: 30})
		require.NoError(t, err)
		assert.Equal(t, "30 day squats", created.Title)
		assert.Equal(t, "user-1", created.CreatedBy)

		list, err = s.ListChallenges(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})
}

func TestJoinLeave(t *testing.T) {
	ctx := context.Background()
	sess := &session.Session{UserID: "user-1"}

	t.Run("unknown challenge", func(t *testing.T) {
		s := newChallengeService(newMemStore(), cache.NewMemory(time.Minute))

		_, err := s.Join(ctx, sess, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("join twice conflicts", func(t *testing.T) {
		store := newMemStore()
		s := newChallengeService(store, cache.NewMemory(time.Minute))
		c := store.addChallenge(30)

		p, err := s.Join(ctx, sess, c.ID)
		require.NoError(t, err)
		assert.Equal(t, progress.DateKey(testNow), progress.DateKey(p.JoinedAt))

		_, err = s.Join(ctx, sess, c.ID)
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("leave without joining", func(t *testing.T) {
		store := newMemStore()
		s := newChallengeService(store, cache.NewMemory(time.Minute))
		c := store.addChallenge(30)

		assert.ErrorIs(t, s.Leave(ctx, sess, c.ID), ErrNotJoined)
	})

	t.Run("join refreshes the cached challenge", func(t *testing.T) {
		store := newMemStore()
		s := newChallengeService(store, cache.NewMemory(time.Minute))
		c := store.addChallenge(30)

		got, err := s.GetChallenge(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Participants)

		_, err = s.Join(ctx, sess, c.ID)
		require.NoError(t, err)

		got, err = s.GetChallenge(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, got.Participants, 1)
		assert.NotNil(t, got.Participant("user-1"))

		require.NoError(t, s.Leave(ctx, sess, c.ID))

		got, err = s.GetChallenge(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Participant("user-1"))
	})
}

func TestShare(t *testing.T) {
	store := newMemStore()
	s := newChallengeService(store, cache.NewMemory(time.Minute))
	c := store.addChallenge(30)

	share, err := s.Share(context.Background(), c.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://fit.example.com/challenges/join/"+c.ID.String(), share.Link)

	png, err := base64.StdEncoding.DecodeString(share.QrCodeBase64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = s.Share(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
