package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry(time.Hour)

	s, err := r.Open("sess_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", s.UserID)

	again, err := r.Open("sess_1", "user_1")
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, r.Len())

	r.Close("sess_1")
	assert.True(t, r.IsClosed("sess_1"))
	assert.Equal(t, 0, r.Len())

	_, err = r.Open("sess_1", "user_1")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = r.Open("sess_2", "user_1")
	assert.NoError(t, err)
}

func TestRegistry_SessionWithoutID(t *testing.T) {
	r := NewRegistry(time.Hour)

	s, err := r.Open("", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", s.UserID)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_PruneForgetsExpiredClosures(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour)
	r.now = func() time.Time { return now }

	r.Close("sess_old")
	now = now.Add(2 * time.Hour)
	r.Close("sess_new")

	r.Prune()

	assert.False(t, r.IsClosed("sess_old"))
	assert.True(t, r.IsClosed("sess_new"))
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewRegistry(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	<-done
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "sess_1", UserID: "user_1"}
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
