package storage

import "errors"

// The two failure kinds callers can act on. Backends wrap the underlying
// cause into the message so errors.Is still matches the sentinel.
var (
	// ErrStorageUnavailable means the medium could not be opened or
	// initialized.
	ErrStorageUnavailable = errors.New("storage: unavailable")

	// ErrWriteFailed means a specific insert, update or delete did not
	// reach the medium.
	ErrWriteFailed = errors.New("storage: write failed")
)
