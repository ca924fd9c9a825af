package core

import "errors"

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrTransactionFailed means a multi-row unit failed and was rolled back.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrStoreUnavailable means the store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidTerm      = errors.New("invalid term")
)
