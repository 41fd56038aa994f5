// Package capture implements the recording engine: it acquires an audio
// device, accumulates encoder chunks in arrival order, and finalizes them
// into a single container on stop. The device itself is abstracted behind
// the Device interface so the engine is testable without hardware.
package capture

import "context"

// StreamConfig describes the capture format requested from a device.
type StreamConfig struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Device grants exclusive access to an audio input.
type Device interface {
	// Open acquires the device and starts producing encoder chunks.
	// Implementations must fail when permission is denied or no input
	// device exists.
	Open(ctx context.Context, cfg StreamConfig) (Stream, error)
}

// Stream is an active capture handle. Chunks are delivered in encode order;
// the channel is closed when the stream ends. Close releases the device and
// must be safe to call more than once.
type Stream interface {
	Chunks() <-chan []byte
	Close() error
}
