package service

import "errors"

var (
	// ErrInvalidInput rejects a request before any state is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the referenced catalog item has no body.
	ErrNotFound = errors.New("item not found")

	// ErrConcurrentModification surfaces when two writers raced on the
	// same record and the internal retry also lost. Transient; the
	// caller may retry.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)
