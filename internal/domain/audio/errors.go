package audio

import "errors"

// Sentinel kinds for audio pipeline errors.
var (
	ErrDecode   = errors.New("container decode failed")
	ErrResample = errors.New("resample failed")
	ErrEncode   = errors.New("wav encode failed")
)
