package memo

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// BenchmarkCall_Hit measures the steady-state hit path.
func BenchmarkCall_Hit(b *testing.B) {
	ctx := context.Background()
	f, _ := Wrap(func(_ context.Context, _ string, _ ...any) (int, error) {
		return 1, nil
	})

	// Warm the store.
	_, _ = f.Call(ctx, "r", "key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Call(ctx, "r", "key")
	}
}

// BenchmarkCall_Miss measures the miss path with distinct keys.
func BenchmarkCall_Miss(b *testing.B) {
	ctx := context.Background()
	f, _ := Wrap(func(_ context.Context, _ string, _ ...any) (int, error) {
		return 1, nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Call(ctx, "r", fmt.Sprintf("key-%d", i))
	}
}

// BenchmarkCall_HitWithTags measures the hit path with the staleness check.
func BenchmarkCall_HitWithTags(b *testing.B) {
	ctx := context.Background()
	reg := NewRegistry()
	f, _ := Wrap(func(_ context.Context, _ string, _ ...any) (int, error) {
		return 1, nil
	}, WithTags("a", "b"), WithRegistry(reg))

	_, _ = f.Call(ctx, "r", "key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Call(ctx, "r", "key")
	}
}

// BenchmarkCall_HitWithTTL measures the hit path with expiry checking.
func BenchmarkCall_HitWithTTL(b *testing.B) {
	ctx := context.Background()
	f, _ := Expiring(func(_ context.Context, _ string, _ ...any) (int, error) {
		return 1, nil
	}, time.Hour)

	_, _ = f.Call(ctx, "r", "key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Call(ctx, "r", "key")
	}
}

// BenchmarkCall_HitParallel measures contended hits on one receiver.
func BenchmarkCall_HitParallel(b *testing.B) {
	ctx := context.Background()
	f, _ := Wrap(func(_ context.Context, _ string, _ ...any) (int, error) {
		return 1, nil
	})

	_, _ = f.Call(ctx, "r", "key")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = f.Call(ctx, "r", "key")
		}
	})
}

// BenchmarkCanonicalKeyFunc measures key derivation over a map argument.
func BenchmarkCanonicalKeyFunc(b *testing.B) {
	keyFn := CanonicalKeyFunc()
	arg := map[string]any{"query": "benchmark", "limit": 25, "nested": map[string]any{"a": 1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = keyFn(nil, arg)
	}
}

// BenchmarkJoinKey measures the joined-args policy.
func BenchmarkJoinKey(b *testing.B) {
	args := []any{1, "two", 3.0, true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = joinKey(args)
	}
}
