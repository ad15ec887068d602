package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// KeyFunc derives the cache key for a call from the receiver and the
// original arguments. The caller owns collision-freedom of the returned
// keys.
type KeyFunc func(receiver any, args ...any) string

// selfKey identifies the zero-argument entry under the default key policy.
// The NUL prefix keeps it out of the space of derived argument keys.
const selfKey = "\x00self"

// argKey returns the canonical string form of a single argument. Distinct
// values with equal printed forms share a key; see WithJoinedArgs for the
// documented collision semantics.
func argKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// joinKey stringifies every argument and joins the parts with Separator.
func joinKey(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = argKey(a)
	}
	return strings.Join(parts, Separator)
}

// CanonicalKeyFunc returns a KeyFunc that hashes the canonical JSON form of
// the arguments with SHA-256. Maps are serialized with sorted keys, so the
// derived key does not depend on iteration order. Use it when arguments are
// maps or structs whose printed forms are not stable enough to key on.
func CanonicalKeyFunc() KeyFunc {
	return func(_ any, args ...any) string {
		var buf []byte
		for i, a := range args {
			if i > 0 {
				buf = append(buf, Separator...)
			}
			b, err := canonicalize(a)
			if err != nil {
				// Unmarshalable argument: fall back to its printed form.
				b = []byte(argKey(a))
			}
			buf = append(buf, b...)
		}
		sum := sha256.Sum256(buf)
		return hex.EncodeToString(sum[:8])
	}
}

// canonicalize produces a deterministic JSON representation of v.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
