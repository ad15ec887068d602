package memo

import "sync"

// Registry tracks the current version of every tag ever observed. A tag's
// version is a per-tag monotonic counter: two reads of the same tag compare
// equal only if no invalidation happened between them.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Growth: one entry per tag ever observed; entries are never removed.
type Registry struct {
	mu       sync.Mutex
	versions map[string]uint64
}

// NewRegistry creates an empty tag version registry. Most callers use the
// process-wide default instead; a private registry keeps tests and embedded
// subsystems isolated from each other.
func NewRegistry() *Registry {
	return &Registry{versions: make(map[string]uint64)}
}

// Version returns the current version of tag, minting the first version if
// the tag has never been observed.
func (r *Registry) Version(tag string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[tag]
	if !ok {
		v = 1
		r.versions[tag] = v
	}
	return v
}

// Invalidate rotates the version of every given tag already present in the
// registry, marking every store observing it stale. Tags never observed are
// ignored: invalidating an unused tag is a no-op, not an error.
func (r *Registry) Invalidate(tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range tags {
		if _, ok := r.versions[tag]; ok {
			r.versions[tag]++
		}
	}
}

// snapshot returns the current versions of the given tags, minting first
// versions for tags not yet observed.
func (r *Registry) snapshot(tags []string) map[string]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]uint64, len(tags))
	for _, tag := range tags {
		v, ok := r.versions[tag]
		if !ok {
			v = 1
			r.versions[tag] = v
		}
		seen[tag] = v
	}
	return seen
}

// size reports how many tags have ever been observed.
func (r *Registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.versions)
}

// defaultRegistry is the process-wide registry used by wrappers unless
// WithRegistry overrides it.
var defaultRegistry = NewRegistry()

// Invalidate rotates the versions of the given tags in the process-wide
// registry. Every wrapper observing any of them discards its cached entries
// on its next call.
func Invalidate(tags ...string) {
	defaultRegistry.Invalidate(tags...)
}
