package agent

import (
	"context"
	"sync"
	"time"
)

// Cache is the key/value backend behind Store. Implementations must be safe for concurrent use.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

var _ Cache[int] = (*MemoryCache[int])(nil)

type cacheEntry[S any] struct {
	val     S
	expires time.Time
}

// MemoryCache keeps entries in a map. With a TTL, an entry not written for that long is
// treated as absent, which drops abandoned conversations.
type MemoryCache[S any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[S]
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return NewMemoryCacheWithTTL[S](0)
}

// NewMemoryCacheWithTTL returns a cache whose entries expire ttl after their last Set.
// A ttl <= 0 disables expiry.
func NewMemoryCacheWithTTL[S any](ttl time.Duration) *MemoryCache[S] {
	return &MemoryCache[S]{
		entries: make(map[string]cacheEntry[S]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := cacheEntry[S]{val: val}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	return entry.val, ok, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

// lookup must be called with mu held. Expired entries are deleted on sight.
func (m *MemoryCache[S]) lookup(key string) (cacheEntry[S], bool) {
	entry, ok := m.entries[key]
	if !ok {
		return cacheEntry[S]{}, false
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return cacheEntry[S]{}, false
	}
	return entry, true
}
