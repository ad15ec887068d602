package memo

import (
	"context"
	"time"
)

// Hooks observe cache activity on a wrapper. Every callback is optional and
// runs synchronously on the calling goroutine, outside the store lock.
type Hooks struct {
	// OnHit fires when a lookup is served from the store.
	OnHit func(ctx context.Context, key string)

	// OnMiss fires when a lookup falls through to the computation,
	// including lookups that found only an expired entry.
	OnMiss func(ctx context.Context, key string)

	// OnStale fires when a tag version change clears a receiver's store.
	OnStale func(ctx context.Context)
}

// config is assembled by Wrap from the options.
type config struct {
	ttl        time.Duration
	tags       []string
	keyFunc    KeyFunc
	keyFuncSet bool
	joinArgs   bool
	registry   *Registry
	hooks      Hooks
	name       string
	now        func() time.Time
}

func defaultConfig() config {
	return config{
		registry: defaultRegistry,
		now:      time.Now,
	}
}

// validate reports configuration errors at attachment time.
func (c *config) validate() error {
	if c.keyFuncSet && c.keyFunc == nil {
		return ErrNilKeyFunc
	}
	if c.keyFunc != nil && c.joinArgs {
		return ErrConflictingKeyPolicy
	}
	for _, tag := range c.tags {
		if tag == "" {
			return ErrEmptyTag
		}
	}
	return nil
}

// Option configures a wrapper at attachment time.
type Option func(*config)

// WithTTL sets the maximum age of a cached entry. Entries older than d are
// treated as absent and recomputed. A non-positive d disables expiry, the
// default: entries never expire on their own.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithTags declares the invalidation tags this wrapper observes. When any
// of them is invalidated, the next call on each receiver discards that
// receiver's entire store before looking up.
func WithTags(tags ...string) Option {
	return func(c *config) { c.tags = tags }
}

// WithJoinedArgs selects the joined-arguments key policy: every argument is
// stringified and the parts joined with Separator. Calls whose argument
// lists print identically share a cache slot: (1, "2") and ("1", 2) both key
// as "1!2". That collision is intended behavior; supply WithKeyFunc when
// printed forms do not distinguish enough.
func WithJoinedArgs() Option {
	return func(c *config) { c.joinArgs = true }
}

// WithKeyFunc selects a caller-supplied key policy. fn is invoked with the
// receiver and the original arguments; the caller owns collision-freedom.
func WithKeyFunc(fn KeyFunc) Option {
	return func(c *config) {
		c.keyFunc = fn
		c.keyFuncSet = true
	}
}

// WithRegistry binds the wrapper to a private tag version registry instead
// of the process-wide default.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithHooks attaches observation callbacks to the wrapper.
func WithHooks(h Hooks) Option {
	return func(c *config) { c.hooks = h }
}

// WithName names the wrapper for telemetry.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithClock overrides the wall clock used for TTL stamping and expiry
// checks. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
