package memo

import "errors"

// Configuration errors, surfaced by Wrap at attachment time. A wrapper that
// constructs without error never fails for configuration reasons at call
// time.
var (
	// ErrNilFunc indicates the compute function is nil.
	ErrNilFunc = errors.New("memo: compute function is nil")

	// ErrNilKeyFunc indicates WithKeyFunc was given a nil function.
	ErrNilKeyFunc = errors.New("memo: key function is nil")

	// ErrConflictingKeyPolicy indicates more than one key policy was selected.
	ErrConflictingKeyPolicy = errors.New("memo: conflicting key policies")

	// ErrEmptyTag indicates WithTags was given an empty tag name.
	ErrEmptyTag = errors.New("memo: tag name is empty")
)

// Separator joins the stringified arguments under the joined-args key policy.
const Separator = "!"
