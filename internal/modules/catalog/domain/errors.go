package domain

import "errors"

// Failure taxonomy for catalog synchronization. All are non-fatal: the
// caller notifies the operator and keeps going.
var (
	ErrFetchFailed = errors.New("fetch failed")
	ErrSeedFailed  = errors.New("seed failed")
	ErrWriteFailed = errors.New("write failed")
)
