// Package memo provides per-receiver memoization for expensive computations,
// with optional TTL expiry and tag-based group invalidation.
//
// It wraps a computation bound to a receiver, caches results keyed by the
// call arguments, and keeps one store per (wrapper, receiver) pair. Failed
// computations are never cached.
package memo
