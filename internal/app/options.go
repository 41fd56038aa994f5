package service

import (
	"time"

	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/adapters/dispatch"
	"github.com/vocalis/intake/internal/adapters/storage"
	"github.com/vocalis/intake/internal/domain/allowlist"
	"github.com/vocalis/intake/internal/domain/audio"
	"github.com/vocalis/intake/internal/domain/guard"
	"github.com/vocalis/intake/pkg/logger"
)

// Option configures a Service.
type Option func(*Service)

// WithUploadsDir sets the directory for stored recordings.
func WithUploadsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.uploadsDir = dir
		}
	}
}

// WithBackendURL sets the base URL of the processing backend.
func WithBackendURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.backendURL = url
		}
	}
}

// WithAllowlistPath sets the CSV file backing the allow-list.
func WithAllowlistPath(path string) Option {
	return func(s *Service) {
		s.allowlistPath = path
	}
}

// WithSheetURL points the allow-list at a published spreadsheet CSV
// export. Takes precedence over WithAllowlistPath when both are set.
func WithSheetURL(url string) Option {
	return func(s *Service) {
		s.sheetURL = url
	}
}

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithGuardSize bounds the in-flight submission guard.
func WithGuardSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.guardSize = size
		}
	}
}

// WithGuardTTL bounds how long a relayed submission blocks a repeat from
// the same email.
func WithGuardTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// WithWorkerCount sets the number of relay workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithAudioFormat sets the target transcode sample rate and channel count.
func WithAudioFormat(sampleRate, channels int) Option {
	return func(s *Service) {
		if sampleRate > 0 {
			s.sampleRate = sampleRate
		}
		if channels > 0 {
			s.channels = channels
		}
	}
}

// WithSweepInterval sets how often the retention sweeper runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithMaxAudioAge sets the retention age for stored recordings.
func WithMaxAudioAge(age time.Duration) Option {
	return func(s *Service) {
		if age > 0 {
			s.maxAudioAge = age
		}
	}
}

// WithStore injects a storage backend, mainly for testing.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithConverter injects a pre-configured audio converter.
func WithConverter(c *audio.Converter) Option {
	return func(s *Service) {
		s.converter = c
	}
}

// WithDirectory injects an allow-list directory, mainly for testing.
func WithDirectory(d allowlist.Directory) Option {
	return func(s *Service) {
		s.directory = d
	}
}

// WithGuard injects an in-flight guard, mainly for testing.
func WithGuard(g guard.Guard) Option {
	return func(s *Service) {
		s.guard = g
	}
}

// WithQueue injects a dispatch queue, mainly for testing.
func WithQueue(q dispatch.Queue) Option {
	return func(s *Service) {
		s.queue = q
	}
}

// WithBackendClient injects a backend relay client, mainly for testing.
func WithBackendClient(c *backend.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
