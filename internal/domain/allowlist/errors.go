package allowlist

import "errors"

// Sentinel kinds for allow-list errors.
var (
	ErrNotFound      = errors.New("email not found")
	ErrExpired       = errors.New("access expired")
	ErrBadRow        = errors.New("invalid expiration status")
	ErrNoEmailColumn = errors.New("email column not found")
	ErrEmpty         = errors.New("allow-list is empty")
	ErrSource        = errors.New("allow-list source unavailable")
)
