// Package guard tracks in-flight submission IDs so each intake form is
// relayed at most once.
package guard

import "time"

const defaultMaxSize = 10000

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}

// WithTTL bounds how long a recorded ID blocks resubmission. Zero keeps
// records until eviction or Unrecord.
func WithTTL(ttl time.Duration) Option {
	return func(g *inMemoryGuard) {
		g.ttl = ttl
	}
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(g *inMemoryGuard) {
		g.now = now
	}
}
