package memo

import (
	"context"
	"sync"
	"time"
)

// ComputeFunc is the computation a wrapper memoizes: a method or accessor
// bound to a receiver. It runs synchronously on a miss. Its side effects
// happen exactly once per miss and never on a hit; its error, if any,
// propagates to the caller and is never cached.
type ComputeFunc[T comparable, R any] func(ctx context.Context, receiver T, args ...any) (R, error)

// Func memoizes a ComputeFunc per receiver. Each receiver gets its own
// store, created on the first call and kept for the wrapper's lifetime;
// distinct receivers never share cached values.
//
// Contract:
// - Concurrency: safe for concurrent use; concurrent misses for the same
//   key on the same receiver run the computation once.
// - Errors: compute failures propagate unchanged and are not cached, so the
//   next call with the same key is a fresh attempt.
// - Ownership: cached values are returned as stored; callers must not
//   mutate shared results.
type Func[T comparable, R any] struct {
	fn  ComputeFunc[T, R]
	cfg config

	mu     sync.RWMutex
	stores map[T]*store[R]

	stats statsCounters
}

// Wrap memoizes fn. Configuration problems (nil fn, nil key function,
// conflicting key policies, empty tag names) are reported here, never at
// call time.
func Wrap[T comparable, R any](fn ComputeFunc[T, R], opts ...Option) (*Func[T, R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Func[T, R]{
		fn:     fn,
		cfg:    cfg,
		stores: make(map[T]*store[R]),
	}, nil
}

// Expiring memoizes fn with a TTL. It is shorthand for Wrap with WithTTL
// applied first; later options may still override it.
func Expiring[T comparable, R any](fn ComputeFunc[T, R], ttl time.Duration, opts ...Option) (*Func[T, R], error) {
	return Wrap(fn, append([]Option{WithTTL(ttl)}, opts...)...)
}

// Name returns the telemetry name set with WithName, or "".
func (f *Func[T, R]) Name() string {
	return f.cfg.name
}

// Call returns the cached result for the key derived from args, computing
// and storing it on a miss. Per call, in order: resolve the receiver's
// store, discard it wholesale if any observed tag rotated, derive the key,
// expire by TTL, then hit or compute-and-store.
func (f *Func[T, R]) Call(ctx context.Context, receiver T, args ...any) (R, error) {
	st := f.storeFor(receiver)
	key := f.deriveKey(receiver, args)

	st.mu.Lock()
	cleared := false
	if len(f.cfg.tags) > 0 {
		cleared = st.refresh(f.cfg.tags, f.cfg.registry)
	}
	value, ok := st.lookup(key, f.cfg.ttl, f.cfg.now())
	st.mu.Unlock()

	if cleared {
		f.stats.stale.Add(1)
		if h := f.cfg.hooks.OnStale; h != nil {
			h(ctx)
		}
	}

	if ok {
		f.stats.hits.Add(1)
		if h := f.cfg.hooks.OnHit; h != nil {
			h(ctx, key)
		}
		return value, nil
	}

	f.stats.misses.Add(1)
	if h := f.cfg.hooks.OnMiss; h != nil {
		h(ctx, key)
	}

	// Concurrent misses for the same key share one computation.
	v, err, _ := st.flight.Do(key, func() (any, error) {
		res, err := f.fn(ctx, receiver, args...)
		if err != nil {
			return nil, err
		}
		st.put(key, res, f.cfg.now())
		return res, nil
	})
	if err != nil {
		f.stats.errors.Add(1)
		var zero R
		return zero, err
	}
	if v == nil {
		// R is an interface type and the computation returned its nil value.
		var zero R
		return zero, nil
	}

	return v.(R), nil
}

// storeFor resolves the receiver's store, creating it on first use. A new
// store captures the current tag versions so that invalidations predating
// the store do not count as staleness.
func (f *Func[T, R]) storeFor(receiver T) *store[R] {
	f.mu.RLock()
	st := f.stores[receiver]
	f.mu.RUnlock()
	if st != nil {
		return st
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if st = f.stores[receiver]; st != nil {
		return st
	}

	var seen map[string]uint64
	if len(f.cfg.tags) > 0 {
		seen = f.cfg.registry.snapshot(f.cfg.tags)
	}
	st = newStore[R](seen)
	f.stores[receiver] = st
	return st
}

// deriveKey applies the configured key policy. With no policy and no
// arguments the reserved self key is used: the store is already scoped to
// the receiver, so a zero-argument accessor memoizes exactly one value per
// receiver.
func (f *Func[T, R]) deriveKey(receiver T, args []any) string {
	switch {
	case f.cfg.keyFunc != nil:
		return f.cfg.keyFunc(receiver, args...)
	case f.cfg.joinArgs:
		return joinKey(args)
	case len(args) == 0:
		return selfKey
	default:
		return argKey(args[0])
	}
}
