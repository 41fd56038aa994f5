package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrInvalidName = errors.New("invalid filename")
	ErrNotFound    = errors.New("file not found")
	ErrWrite       = errors.New("write failed")
	ErrSweep       = errors.New("sweep failed")
)
