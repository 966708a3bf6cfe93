package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fitChallengeAPI/internal/metrics"
)

type item struct {
	data    []byte
	tags    []string
	expires time.Time
}

// Memory is an in-process Cache used when no Redis is configured.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	tags  map[string]map[string]struct{}
	ttl   time.Duration
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: make(map[string]item),
		tags:  make(map[string]map[string]struct{}),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || m.now().After(it.expires) {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false, nil
	}

	if err := json.Unmarshal(it.data, dst); err != nil {
		return false, err
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropLocked(key)
	m.items[key] = item{data: data, tags: tags, expires: m.now().Add(m.ttl)}
	for _, tag := range tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *Memory) Invalidate(ctx context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for key := range m.tags[tag] {
			m.dropLocked(key)
		}
		delete(m.tags, tag)
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

func (m *Memory) dropLocked(key string) {
	it, ok := m.items[key]
	if !ok {
		return
	}
	delete(m.items, key)
	for _, tag := range it.tags {
		if keys, ok := m.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.tags, tag)
			}
		}
	}
}

func (m *Memory) evictExpired() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, it := range m.items {
		if now.After(it.expires) {
			m.dropLocked(key)
		}
	}
}

// Run evicts expired entries on every tick until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictExpired()
		case <-ctx.Done():
			return
		}
	}
}
