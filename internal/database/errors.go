package database

import "errors"

var (
	// ErrNotAvailable means fewer free rooms than requested. A business
	// outcome, not a storage fault; callers branch on it with errors.Is.
	ErrNotAvailable = errors.New("not enough free rooms")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
