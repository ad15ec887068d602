// Package observe provides observability primitives for memoized
// computations: spans around compute runs, lookup-outcome metrics, and
// structured logging.
//
// It is a pure instrumentation library: no caching, no execution, no I/O
// beyond exporter setup. Consumers wire it into a wrapper through memo.Hooks
// or by wrapping the compute function with Middleware.
package observe
