package audio

import "fmt"

// Resample renders buf into a new buffer at the target sample rate and
// channel count using linear interpolation, the offline equivalent of a
// rendering pass. The source buffer is not modified.
func Resample(buf *PCMBuffer, targetRate, targetChannels int) (*PCMBuffer, error) {
	if targetRate <= 0 || targetChannels <= 0 {
		return nil, fmt.Errorf("%w: invalid target %d Hz / %d ch", ErrResample, targetRate, targetChannels)
	}
	srcFrames := buf.Frames()
	if srcFrames == 0 || buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: zero-length audio", ErrResample)
	}

	mixed := remapChannels(buf.Channels, targetChannels)

	if targetRate == buf.SampleRate {
		return &PCMBuffer{Channels: mixed, SampleRate: targetRate}, nil
	}

	ratio := float64(buf.SampleRate) / float64(targetRate)
	dstFrames := int(float64(srcFrames) / ratio)
	if dstFrames == 0 {
		dstFrames = 1
	}

	out := make([][]float64, targetChannels)
	for ch := range out {
		src := mixed[ch]
		dst := make([]float64, dstFrames)
		for i := range dst {
			pos := float64(i) * ratio
			left := int(pos)
			if left >= srcFrames-1 {
				dst[i] = src[srcFrames-1]
				continue
			}
			frac := pos - float64(left)
			dst[i] = src[left]*(1-frac) + src[left+1]*frac
		}
		out[ch] = dst
	}

	return &PCMBuffer{Channels: out, SampleRate: targetRate}, nil
}

// remapChannels up- or down-mixes source channels to the target count.
// Upmixing repeats the last source channel; downmixing to mono averages.
func remapChannels(src [][]float64, target int) [][]float64 {
	if len(src) == target {
		return cloneChannels(src)
	}

	frames := len(src[0])
	out := make([][]float64, target)

	if target == 1 {
		mono := make([]float64, frames)
		for i := 0; i < frames; i++ {
			var sum float64
			for _, ch := range src {
				sum += ch[i]
			}
			mono[i] = sum / float64(len(src))
		}
		out[0] = mono
		return out
	}

	for ch := 0; ch < target; ch++ {
		i := ch
		if i >= len(src) {
			i = len(src) - 1
		}
		out[ch] = append([]float64(nil), src[i]...)
	}
	return out
}

func cloneChannels(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, ch := range src {
		out[i] = append([]float64(nil), ch...)
	}
	return out
}
