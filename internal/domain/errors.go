package domain

import "errors"

// Error kinds surfaced by the store. Operations wrap these with the violated
// constraint and key via fmt.Errorf so callers can match with errors.Is and
// still build a precise user message.
var (
	// ErrValidation marks malformed input: non-positive epic numbers,
	// unrecognized badges or sort modes, empty artist names.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a uniqueness violation on a non-idempotent insert,
	// e.g. claiming the same (track, serial) pair twice.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks an operation targeting a row that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDependency marks a referenced user, track or artist row that is
	// absent. Callers must ensure catalog rows exist first.
	ErrDependency = errors.New("missing dependency")
)
