// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"time"
)

// Default audio pipeline parameters. 4100 Hz stereo 16-bit is deliberately
// low fidelity to keep stored clips small while preserving voice signal.
const (
	DefaultSampleRate    = 4100
	DefaultChannels      = 2
	DefaultBitDepth      = 16
	DefaultRecordSeconds = 10
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UploadsDir is the flat directory holding uploaded audio files.
	UploadsDir string `koanf:"uploads_dir"`

	// PublicBaseURL overrides request-origin URL generation when set,
	// e.g. behind a reverse proxy.
	PublicBaseURL string `koanf:"public_base_url"`

	// BackendURL is the downstream processing service base URL.
	BackendURL string `koanf:"backend_url"`

	// SessionHashKey authenticates session cookies (32 or 64 bytes).
	SessionHashKey string `koanf:"session_hash_key"`

	// SessionBlockKey encrypts session cookies (16, 24 or 32 bytes).
	SessionBlockKey string `koanf:"session_block_key"`

	// SessionMaxAge bounds session cookie lifetime in seconds.
	SessionMaxAge int `koanf:"session_max_age"`

	// SecureCookies marks session cookies Secure (set behind TLS).
	SecureCookies bool `koanf:"secure_cookies"`

	// AllowlistPath points at a local CSV allow-list file.
	AllowlistPath string `koanf:"allowlist_path"`

	// AllowlistSheetURL points at a published-sheet CSV export; takes
	// precedence over AllowlistPath when both are set.
	AllowlistSheetURL string `koanf:"allowlist_sheet_url"`

	// MaxAudioAgeHours is the retention threshold for uploaded audio.
	MaxAudioAgeHours int `koanf:"max_audio_age_hours"`

	// SweepInterval controls how often the retention sweeper runs.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// SampleRate, Channels and BitDepth describe the canonical WAV output.
	SampleRate int `koanf:"sample_rate"`
	Channels   int `koanf:"channels"`
	BitDepth   int `koanf:"bit_depth"`

	// RecordSeconds caps a single recording.
	RecordSeconds int `koanf:"record_seconds"`

	// DispatchQueueSize bounds the in-memory submission dispatch queue.
	DispatchQueueSize int `koanf:"dispatch_queue_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		UploadsDir:        "public/uploads",
		BackendURL:        "http://127.0.0.1:5000",
		SessionMaxAge:     3600,
		MaxAudioAgeHours:  24,
		SweepInterval:     time.Hour,
		SampleRate:        DefaultSampleRate,
		Channels:          DefaultChannels,
		BitDepth:          DefaultBitDepth,
		RecordSeconds:     DefaultRecordSeconds,
		DispatchQueueSize: 1024,
	}
}
