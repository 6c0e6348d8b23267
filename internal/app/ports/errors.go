package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrCorruptSnapshot marks a persisted scene whose shape cannot be
	// decoded. Callers treat it as "no saved state" and regenerate.
	ErrCorruptSnapshot = errors.New("corrupt scene snapshot")

	// ErrAssetUnavailable marks an image that is not loaded. Entity
	// construction requires concrete dimensions and never proceeds with
	// guessed ones.
	ErrAssetUnavailable = errors.New("asset unavailable")
)
