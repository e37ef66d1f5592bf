// Package cache is the shared read cache behind the view-model handlers.
// Entries are keyed by (user, resource, params) so a mutation can invalidate
// exactly the keys it could have affected: logging a weight drops that user's
// weight history, weight chart and dashboard, nothing else. Under-invalidation
// shows stale remaining calories; over-invalidation only costs a round trip.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a store whose entries expire after ttl. Daily aggregates must
// not survive across days, so callers keep ttl short; ttl <= 0 disables
// expiry and leaves freshness entirely to invalidation.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key joins key parts with ":". The first part is the per-user prefix.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(e.storedAt) > s.ttl {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, v any) {
	s.mu.Lock()
	s.entries[key] = entry{value: v, storedAt: s.now()}
	s.mu.Unlock()
}

// Invalidate drops the entry at prefix and every entry nested under it
// (prefix + ":..."). Returns how many entries were removed.
func (s *Store) Invalidate(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.entries {
		if k == prefix || strings.HasPrefix(k, prefix+":") {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}
