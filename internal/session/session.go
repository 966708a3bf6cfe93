package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("session has been signed out")

// Session is the authenticated identity of a caller. It is created by the
// auth middleware and handed down the call chain explicitly.
type Session struct {
	ID       string    `json:"session_id"`
	UserID   string    `json:"user_id"`
	OpenedAt time.Time `json:"opened_at"`
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// Registry tracks the lifecycle of sessions in this process. A session is
// opened on its first authenticated request and closed on sign-out; closed
// ids are refused until the retention window has passed, which must outlast
// the identity provider's token lifetime.
type Registry struct {
	mu        sync.Mutex
	open      map[string]*Session
	closed    map[string]time.Time
	retention time.Duration
	now       func() time.Time
}

func NewRegistry(retention time.Duration) *Registry {
	return &Registry{
		open:      make(map[string]*Session),
		closed:    make(map[string]time.Time),
		retention: retention,
		now:       time.Now,
	}
}

// Open returns the live session for id, creating it if needed.
func (r *Registry) Open(id, userID string) (*Session, error) {
	now := r.now()
	if id == "" {
		return &Session{UserID: userID, OpenedAt: now}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, closed := r.closed[id]; closed {
		return nil, ErrClosed
	}
	if s, ok := r.open[id]; ok && s.UserID == userID {
		return s, nil
	}

	s := &Session{ID: id, UserID: userID, OpenedAt: now}
	r.open[id] = s
	return s, nil
}

// Close tears the session down. Later Open calls for the id fail.
func (r *Registry) Close(id string) {
	if id == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.open, id)
	r.closed[id] = r.now()
}

func (r *Registry) IsClosed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, closed := r.closed[id]
	return closed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.open)
}

// Prune forgets closed sessions older than the retention window and open
// sessions idle for longer than it.
func (r *Registry) Prune() {
	cutoff := r.now().Add(-r.retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, closedAt := range r.closed {
		if closedAt.Before(cutoff) {
			delete(r.closed, id)
		}
	}
	for id, s := range r.open {
		if s.OpenedAt.Before(cutoff) {
			delete(r.open, id)
		}
	}
}

// Run prunes on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Prune()
		case <-ctx.Done():
			return
		}
	}
}
