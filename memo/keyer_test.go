package memo

import (
	"strings"
	"testing"
)

func TestArgKey(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"string passes through", "hello", "hello"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := argKey(tt.arg); got != tt.want {
				t.Errorf("argKey(%v) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"no args", nil, ""},
		{"single arg", []any{"a"}, "a"},
		{"mixed types", []any{1, "2", true}, "1!2!true"},
		{"int and string collide", []any{1, "2"}, "1!2"},
		{"string and int collide", []any{"1", 2}, "1!2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinKey(tt.args); got != tt.want {
				t.Errorf("joinKey(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestSelfKey_NeverCollidesWithArgumentKeys(t *testing.T) {
	// An empty string argument must not land on the zero-argument slot.
	if argKey("") == selfKey {
		t.Error("empty string argument collides with the self key")
	}
	if !strings.HasPrefix(selfKey, "\x00") {
		t.Error("self key must stay outside the printable argument key space")
	}
}

func TestCanonicalKeyFunc_MapOrderIndependence(t *testing.T) {
	keyFn := CanonicalKeyFunc()

	m1 := map[string]any{"b": 2, "a": 1, "c": map[string]any{"y": true, "x": false}}
	m2 := map[string]any{"c": map[string]any{"x": false, "y": true}, "a": 1, "b": 2}

	k1 := keyFn(nil, m1)
	k2 := keyFn(nil, m2)
	if k1 != k2 {
		t.Errorf("equal maps derived different keys: %q vs %q", k1, k2)
	}
}

func TestCanonicalKeyFunc_DistinguishesValues(t *testing.T) {
	keyFn := CanonicalKeyFunc()

	tests := []struct {
		name string
		a, b []any
	}{
		{"different values", []any{map[string]any{"q": "x"}}, []any{map[string]any{"q": "y"}}},
		{"different keys", []any{map[string]any{"a": 1}}, []any{map[string]any{"b": 1}}},
		{"different arity", []any{"a"}, []any{"a", "b"}},
		{"typed difference", []any{1}, []any{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if keyFn(nil, tt.a...) == keyFn(nil, tt.b...) {
				t.Errorf("distinct inputs %v and %v derived the same key", tt.a, tt.b)
			}
		})
	}
}

func TestCanonicalKeyFunc_Deterministic(t *testing.T) {
	keyFn := CanonicalKeyFunc()
	args := []any{map[string]any{"query": "test", "limit": 10}, []any{"a", "b"}}

	first := keyFn(nil, args...)
	for i := 0; i < 20; i++ {
		if got := keyFn(nil, args...); got != first {
			t.Fatalf("iteration %d derived %q, want %q", i, got, first)
		}
	}
}

func TestCanonicalKeyFunc_NilArgument(t *testing.T) {
	keyFn := CanonicalKeyFunc()

	k1 := keyFn(nil, nil)
	k2 := keyFn(nil, nil)
	if k1 != k2 {
		t.Errorf("nil argument keys differ: %q vs %q", k1, k2)
	}
	if k1 == keyFn(nil, "null") {
		t.Error("nil and the string \"null\" must not collide: canonical forms differ by quoting")
	}
}
