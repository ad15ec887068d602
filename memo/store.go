package memo

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry is one cached value and the wall-clock time it was computed.
type entry[R any] struct {
	value    R
	storedAt time.Time
}

// store holds the cached entries for one (wrapper, receiver) pair, plus the
// tag versions observed when the store was created or last cleared. Stores
// are created lazily on first call and kept for the wrapper's lifetime.
type store[R any] struct {
	mu      sync.Mutex
	entries map[string]entry[R]
	seen    map[string]uint64
	flight  singleflight.Group
}

func newStore[R any](seen map[string]uint64) *store[R] {
	return &store[R]{
		entries: make(map[string]entry[R]),
		seen:    seen,
	}
}

// refresh compares the observed tag versions against the registry and, when
// any differ, discards every entry and re-captures the current versions.
// One rotated tag clears the whole store, not just related keys. The caller
// must hold s.mu so the check-clear-recapture sequence is atomic for this
// store's callers.
func (s *store[R]) refresh(tags []string, reg *Registry) bool {
	stale := false
	for _, tag := range tags {
		if s.seen[tag] != reg.Version(tag) {
			stale = true
			break
		}
	}
	if !stale {
		return false
	}

	clear(s.entries)
	for _, tag := range tags {
		s.seen[tag] = reg.Version(tag)
	}
	return true
}

// lookup returns the value under key if present and not expired. An entry
// older than ttl is deleted and reported as a miss; an entry exactly ttl old
// is still a hit. A non-positive ttl disables expiry. The caller must hold
// s.mu.
func (s *store[R]) lookup(key string, ttl time.Duration, now time.Time) (R, bool) {
	e, ok := s.entries[key]
	if !ok {
		var zero R
		return zero, false
	}

	if ttl > 0 && now.Sub(e.storedAt) > ttl {
		delete(s.entries, key)
		var zero R
		return zero, false
	}

	return e.value, true
}

// put stores value under key, stamped with the time it was computed.
func (s *store[R]) put(key string, value R, now time.Time) {
	s.mu.Lock()
	s.entries[key] = entry[R]{value: value, storedAt: now}
	s.mu.Unlock()
}

// len reports the number of live entries. Expired entries still count until
// a lookup evicts them.
func (s *store[R]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
