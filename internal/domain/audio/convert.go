package audio

import (
	"context"
	"time"

	"github.com/vocalis/intake/pkg/logger"
	"github.com/vocalis/intake/pkg/metrics"
)

// Converter normalizes recorded containers into canonical WAV assets.
type Converter struct {
	sampleRate int
	channels   int
	logger     logger.Logger
}

// ConverterOption applies a configuration option to the Converter.
type ConverterOption func(*Converter)

// WithSampleRate sets the target output sample rate.
func WithSampleRate(rate int) ConverterOption {
	return func(c *Converter) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithChannels sets the target output channel count.
func WithChannels(channels int) ConverterOption {
	return func(c *Converter) {
		if channels > 0 {
			c.channels = channels
		}
	}
}

// WithConverterLogger sets a custom logger for the converter.
func WithConverterLogger(l logger.Logger) ConverterOption {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConverter creates a converter targeting 4100 Hz stereo 16-bit by default.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		sampleRate: 4100,
		channels:   2,
		logger:     logger.Get().Named("converter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert decodes the container, resamples to the configured target format,
// and serializes a WAV asset. On any decode or resample failure the original
// container bytes are relabeled as the asset (Fallback=true) rather than
// returning an error: the pipeline always yields some playable artifact.
// Once started a conversion runs to completion; ctx is used for logging only.
func (c *Converter) Convert(ctx context.Context, container Container) Asset {
	start := time.Now()
	defer func() {
		metrics.RecordTranscodeDuration(float64(time.Since(start).Milliseconds()))
	}()

	buf, err := DecodeWAV(container.Data)
	if err != nil {
		return c.fallback(ctx, container, err)
	}

	resampled, err := Resample(buf, c.sampleRate, c.channels)
	if err != nil {
		return c.fallback(ctx, container, err)
	}

	data, err := EncodeWAV(resampled)
	if err != nil {
		return c.fallback(ctx, container, err)
	}

	return Asset{
		Data:       data,
		SampleRate: c.sampleRate,
		Channels:   c.channels,
		BitDepth:   16,
		Fallback:   false,
	}
}

// fallback relabels the raw container bytes as the output asset.
func (c *Converter) fallback(ctx context.Context, container Container, cause error) Asset {
	c.logger.Warn(ctx, "conversion failed; returning raw container bytes",
		logger.String("mime", container.MIME),
		logger.Int("size", len(container.Data)),
		logger.Error(cause),
	)
	metrics.RecordTranscodeFallback()
	return Asset{
		Data:       container.Data,
		SampleRate: c.sampleRate,
		Channels:   c.channels,
		BitDepth:   16,
		Fallback:   true,
	}
}
