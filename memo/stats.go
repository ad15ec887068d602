package memo

import "sync/atomic"

// Stats is a point-in-time snapshot of a wrapper's counters.
type Stats struct {
	Hits   uint64 // lookups served from a store
	Misses uint64 // lookups that ran the computation, including expired entries
	Stale  uint64 // wholesale store clears caused by tag invalidation
	Errors uint64 // computations that failed (and were not cached)
}

// HitRate returns hits over total lookups, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type statsCounters struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	stale  atomic.Uint64
	errors atomic.Uint64
}

// Stats returns a snapshot of the wrapper's counters.
func (f *Func[T, R]) Stats() Stats {
	return Stats{
		Hits:   f.stats.hits.Load(),
		Misses: f.stats.misses.Load(),
		Stale:  f.stats.stale.Load(),
		Errors: f.stats.errors.Load(),
	}
}
