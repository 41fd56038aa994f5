package dispatch

import (
	"github.com/vocalis/intake/pkg/logger"
)

// WorkerOption applies a configuration option to the RelayWorker.
type WorkerOption func(*RelayWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) WorkerOption {
	return func(w *RelayWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithWorkerLogger sets a custom logger for the worker.
func WithWorkerLogger(l logger.Logger) WorkerOption {
	return func(w *RelayWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
