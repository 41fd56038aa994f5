package guard

import "errors"

// Sentinel kinds for guard errors.
var (
	ErrInFlight = errors.New("submission already in flight")
)
