package service

import "errors"

var (
	// ErrStorageFailure wraps any catalog or history I/O error.
	ErrStorageFailure  = errors.New("catalog storage failure")
	ErrNeedsGenreFirst = errors.New("style chosen before genre")
)
