package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if INTAKE_CONFIG is set
//  3. env (prefix INTAKE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INTAKE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: INTAKE_ADDR, INTAKE_UPLOADS_DIR, ...
	// Map env keys like INTAKE_UPLOADS_DIR -> uploads_dir (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("INTAKE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "intake_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UploadsDir == "":
		return fmt.Errorf("%w: uploads_dir must not be empty", ErrInvalidConfig)
	case c.BackendURL == "":
		return fmt.Errorf("%w: backend_url must not be empty", ErrInvalidConfig)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive", ErrInvalidConfig)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels must be positive", ErrInvalidConfig)
	case c.BitDepth != 16:
		return fmt.Errorf("%w: only 16-bit output is supported", ErrInvalidConfig)
	case c.MaxAudioAgeHours <= 0:
		return fmt.Errorf("%w: max_audio_age_hours must be positive", ErrInvalidConfig)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("%w: session_max_age must be positive", ErrInvalidConfig)
	}
	return nil
}

// Keys returns the session keys decoded for cookie sealing. Missing keys are
// an error at startup rather than at first login.
func (c *Config) Keys() (hash, block []byte, err error) {
	if c.SessionHashKey == "" {
		return nil, nil, fmt.Errorf("%w: session_hash_key not set", ErrInvalidConfig)
	}
	hash = []byte(c.SessionHashKey)
	if c.SessionBlockKey != "" {
		block = []byte(c.SessionBlockKey)
	}
	return hash, block, nil
}
