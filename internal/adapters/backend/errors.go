package backend

import "errors"

// Sentinel kinds for backend client errors.
var (
	ErrUnreachable = errors.New("backend unreachable")
	ErrEncode      = errors.New("encode submission")
)
