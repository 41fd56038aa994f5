// Package audio models the capture-to-WAV pipeline artifacts: the compressed
// container produced by a recording device, the decoded PCM buffer, and the
// canonical 16-bit PCM WAV asset that gets persisted and submitted.
package audio

// Container is the compressed intermediate artifact produced by a recording
// device's encoder. It is consumed exclusively by the converter and then
// discarded.
type Container struct {
	Data []byte
	MIME string
}

// PCMBuffer holds decoded multi-channel floating-point samples. It exists
// only while a conversion is in flight.
type PCMBuffer struct {
	// Channels holds one sample slice per channel; all slices have equal length.
	Channels   [][]float64
	SampleRate int
}

// Frames returns the number of sample frames in the buffer.
func (b *PCMBuffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Asset is the canonical output: interleaved little-endian 16-bit PCM wrapped
// in a 44-byte RIFF/WAVE header. Immutable once produced.
//
// Fallback marks an asset whose Data is the original container bytes relabeled
// because decode or resample failed; its declared format must be treated
// loosely by callers.
type Asset struct {
	Data       []byte
	SampleRate int
	Channels   int
	BitDepth   int
	Fallback   bool
}
