package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/wav"
)

// wavHeader is the fixed 44-byte RIFF/WAVE header preceding PCM data.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // number of bytes in the data chunk
}

const wavHeaderSize = 44

// EncodeWAV serializes a PCM buffer into a 16-bit little-endian WAV byte
// stream. Each floating-point sample is clamped to [-1,1], scaled by 0x8000
// for negative values and 0x7FFF otherwise, and truncated to an int16.
func EncodeWAV(buf *PCMBuffer) ([]byte, error) {
	numChannels := len(buf.Channels)
	frames := buf.Frames()
	if numChannels == 0 || frames == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrEncode)
	}
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrEncode, buf.SampleRate)
	}

	const bitsPerSample = 16
	bytesPerSample := bitsPerSample / 8
	dataSize := uint32(frames * numChannels * bytesPerSample)

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize-8) + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   uint16(numChannels),
		SampleRate:    uint32(buf.SampleRate),
		ByteRate:      uint32(buf.SampleRate * numChannels * bytesPerSample),
		BlockAlign:    uint16(numChannels * bytesPerSample),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	out := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+int(dataSize)))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrEncode, err)
	}

	// Interleave channel data frame by frame.
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			sample := buf.Channels[ch][i]
			if sample < -1 {
				sample = -1
			} else if sample > 1 {
				sample = 1
			}
			var intSample int16
			if sample < 0 {
				intSample = int16(sample * 0x8000)
			} else {
				intSample = int16(sample * 0x7FFF)
			}
			if err := binary.Write(out, binary.LittleEndian, intSample); err != nil {
				return nil, fmt.Errorf("%w: data: %v", ErrEncode, err)
			}
		}
	}

	return out.Bytes(), nil
}

// WrapPCM16 wraps already-interleaved little-endian 16-bit PCM bytes in a
// RIFF/WAVE header, producing a complete WAV stream. Used when a capture
// device emits raw PCM rather than a self-describing container.
func WrapPCM16(data []byte, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid format %d Hz / %d ch", ErrEncode, sampleRate, channels)
	}

	const bytesPerSample = 2
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(wavHeaderSize-8) + uint32(len(data)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bytesPerSample),
		BlockAlign:    uint16(channels * bytesPerSample),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(data)),
	}

	out := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(data)))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrEncode, err)
	}
	out.Write(data)
	return out.Bytes(), nil
}

// DecodeWAV decodes WAV container bytes into a PCM buffer with samples
// normalized to [-1,1]. Bytes that are not a parseable WAV file yield
// ErrDecode.
func DecodeWAV(data []byte) (*PCMBuffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrDecode)
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	numChannels := ib.Format.NumChannels
	if numChannels <= 0 || len(ib.Data) == 0 {
		return nil, fmt.Errorf("%w: no audio data", ErrDecode)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	// Mirror the encoder's scaling: negative samples span the full 2^(n-1)
	// range, non-negative ones stop one step short.
	negScale := float64(int64(1) << (bitDepth - 1))
	posScale := negScale - 1

	frames := len(ib.Data) / numChannels
	out := &PCMBuffer{
		Channels:   make([][]float64, numChannels),
		SampleRate: ib.Format.SampleRate,
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			v := float64(ib.Data[i*numChannels+ch])
			if v < 0 {
				out.Channels[ch][i] = v / negScale
			} else {
				out.Channels[ch][i] = v / posScale
			}
		}
	}
	return out, nil
}
