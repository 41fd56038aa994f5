package capture

import "errors"

// Sentinel kinds for capture errors.
var (
	ErrDevice           = errors.New("capture device unavailable")
	ErrNotRecording     = errors.New("no active recording")
	ErrAlreadyRecording = errors.New("recording already in progress")
)
