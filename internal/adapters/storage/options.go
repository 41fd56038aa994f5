package storage

import (
	"time"

	"github.com/vocalis/intake/pkg/logger"
)

// Option applies a configuration option to the DiskStore.
type Option func(*DiskStore)

// WithClock sets the time source used for filename generation and age
// checks. Mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *DiskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *DiskStore) {
		if l != nil {
			s.logger = l
		}
	}
}
