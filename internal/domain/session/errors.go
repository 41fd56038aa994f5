package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrBadKeys   = errors.New("invalid session keys")
	ErrSeal      = errors.New("session seal failed")
	ErrNoSession = errors.New("no valid session")
)
