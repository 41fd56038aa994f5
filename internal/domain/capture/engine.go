package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocalis/intake/internal/domain/audio"
	"github.com/vocalis/intake/pkg/logger"
)

// Engine owns at most one recording session at a time. Start acquires the
// device; Stop finalizes the session into a WAV container and releases the
// device. The bounded duration (10 s by default) is enforced by the caller
// via a countdown, not by the engine itself.
type Engine struct {
	device        Device
	cfg           StreamConfig
	queueCapacity int
	logger        logger.Logger

	mu   sync.Mutex
	sess *session
}

// session is the transient state of one in-flight recording.
type session struct {
	stream   Stream
	chunks   *chunkQueue
	started  time.Time
	pumpDone chan struct{}
	dropped  int
}

// NewEngine creates a capture engine for the given device.
func NewEngine(device Device, opts ...Option) *Engine {
	e := &Engine{
		device: device,
		cfg: StreamConfig{
			SampleRate: 4100,
			Channels:   2,
			BitDepth:   16,
		},
		queueCapacity: defaultChunkCapacity,
		logger:        logger.Get().Named("capture"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start requests exclusive device access and begins accumulating chunks.
// Returns ErrAlreadyRecording when a session is active and ErrDevice when
// the device cannot be acquired.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess != nil {
		return ErrAlreadyRecording
	}

	stream, err := e.device.Open(ctx, e.cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}

	s := &session{
		stream:   stream,
		chunks:   newChunkQueue(e.queueCapacity),
		started:  time.Now(),
		pumpDone: make(chan struct{}),
	}
	e.sess = s

	// Pump encoder output into the queue in arrival order until the
	// stream ends.
	go func() {
		defer close(s.pumpDone)
		for chunk := range stream.Chunks() {
			if len(chunk) == 0 {
				continue
			}
			if !s.chunks.enqueue(ctx, chunk) {
				s.dropped++
			}
		}
	}()

	e.logger.Info(ctx, "recording started",
		logger.Int("sample_rate", e.cfg.SampleRate),
		logger.Int("channels", e.cfg.Channels),
	)
	return nil
}

// Stop finalizes the active session: the device is released, accumulated
// chunks are concatenated, and the result is wrapped into a WAV container.
// Returns ErrNotRecording when no session is active. The device is released
// even if finalization fails.
func (e *Engine) Stop(ctx context.Context) (audio.Container, error) {
	e.mu.Lock()
	s := e.sess
	e.sess = nil
	e.mu.Unlock()

	if s == nil {
		return audio.Container{}, ErrNotRecording
	}

	// Close the stream first so the chunk channel ends and the device is
	// released on this exit path and every other.
	if err := s.stream.Close(); err != nil {
		e.logger.Warn(ctx, "device release failed", logger.Error(err))
	}
	<-s.pumpDone

	if s.dropped > 0 {
		e.logger.Warn(ctx, "chunks dropped during capture", logger.Int("dropped", s.dropped))
	}
	e.logger.Debug(ctx, "finalizing recording", logger.Int("queued", s.chunks.size()))

	parts := s.chunks.drain()
	var raw bytes.Buffer
	for _, p := range parts {
		raw.Write(p)
	}

	data, err := audio.WrapPCM16(raw.Bytes(), e.cfg.SampleRate, e.cfg.Channels)
	if err != nil {
		return audio.Container{}, fmt.Errorf("finalize recording: %w", err)
	}

	e.logger.Info(ctx, "recording stopped",
		logger.Int("chunks", len(parts)),
		logger.Int("bytes", len(data)),
		logger.Duration("elapsed", time.Since(s.started)),
	)
	return audio.Container{Data: data, MIME: "audio/wav"}, nil
}

// IsRecording reports whether a session is active.
func (e *Engine) IsRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess != nil
}
