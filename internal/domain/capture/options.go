package capture

import (
	"github.com/vocalis/intake/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStreamConfig sets the capture format requested from the device.
func WithStreamConfig(cfg StreamConfig) Option {
	return func(e *Engine) {
		if cfg.SampleRate > 0 && cfg.Channels > 0 {
			e.cfg = cfg
		}
	}
}

// WithQueueCapacity bounds the in-flight chunk queue.
func WithQueueCapacity(capacity int) Option {
	return func(e *Engine) {
		if capacity > 0 {
			e.queueCapacity = capacity
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
