// Package device provides the PortAudio-backed microphone implementation
// of the capture contracts.
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/vocalis/intake/internal/domain/capture"
	"github.com/vocalis/intake/pkg/logger"
)

const framesPerBuffer = 1024

// Microphone opens the default system input device. Requires the native
// PortAudio library.
type Microphone struct {
	logger logger.Logger
}

// Option applies a configuration option to the Microphone.
type Option func(*Microphone)

// WithLogger sets a custom logger for the microphone.
func WithLogger(l logger.Logger) Option {
	return func(m *Microphone) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMicrophone creates a PortAudio-backed capture device.
func NewMicrophone(opts ...Option) *Microphone {
	m := &Microphone{
		logger: logger.Get().Named("microphone"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open implements capture.Device.
func (m *Microphone) Open(ctx context.Context, cfg capture.StreamConfig) (capture.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	in := make([]int16, framesPerBuffer*cfg.Channels)
	pa, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), framesPerBuffer, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := pa.Start(); err != nil {
		_ = pa.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	m.logger.Info(ctx, "microphone opened",
		logger.Int("sampleRate", cfg.SampleRate),
		logger.Int("channels", cfg.Channels),
	)

	s := &micStream{
		pa:     pa,
		in:     in,
		chunks: make(chan []byte, 8),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: m.logger,
	}
	go s.pump(ctx)
	return s, nil
}

// micStream reads buffers off the PortAudio stream and exposes them as
// little-endian PCM16 chunks.
type micStream struct {
	pa     *portaudio.Stream
	in     []int16
	chunks chan []byte
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error

	logger logger.Logger
}

// Chunks implements capture.Stream.
func (s *micStream) Chunks() <-chan []byte {
	return s.chunks
}

// pump copies device buffers into the chunk channel until stopped.
func (s *micStream) pump(ctx context.Context) {
	defer close(s.done)
	defer close(s.chunks)

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := s.pa.Read(); err != nil {
			s.logger.Warn(ctx, "stream read failed", logger.Error(err))
			return
		}

		chunk := make([]byte, len(s.in)*2)
		for i, sample := range s.in {
			chunk[2*i] = byte(sample)
			chunk[2*i+1] = byte(sample >> 8)
		}

		select {
		case s.chunks <- chunk:
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close implements capture.Stream. Safe to call more than once.
func (s *micStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		if err := s.pa.Abort(); err != nil {
			s.closeErr = err
		}
		<-s.done
		if err := s.pa.Close(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
		if err := portaudio.Terminate(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}
