package smoketest

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/rand"

	"github.com/vocalis/intake/internal/domain/audio"
)

// Synthetic clip parameters. The tone sweep makes the uploaded clip
// audible when fetched back from the service.
const (
	clipSampleRate = 4100
	clipChannels   = 2
	clipSeconds    = 3
	toneBaseHz     = 220.0
	toneSweepHz    = 440.0
)

var (
	firstNames = []string{"Ava", "Liam", "Maya", "Noah", "Zoe", "Omar", "Lena", "Kai"}
	lastNames  = []string{"Harris", "Nguyen", "Okafor", "Silva", "Kim", "Moreau", "Janson"}
	genders    = []string{"female", "male", "other", ""}
)

// generateProfile builds a synthetic client for the given login email.
func generateProfile(email string) Profile {
	return Profile{
		FirstName:   firstNames[rand.Intn(len(firstNames))],
		LastName:    lastNames[rand.Intn(len(lastNames))],
		Email:       email,
		Gender:      genders[rand.Intn(len(genders))],
		Weight:      fmt.Sprintf("%.1f", 50+rand.Float64()*50),
		WeightUnit:  "kg",
		Height:      fmt.Sprintf("%.1f", 150+rand.Float64()*40),
		HeightUnit:  "cm",
		DateOfBirth: fmt.Sprintf("19%02d-%02d-%02d", 60+rand.Intn(40), 1+rand.Intn(12), 1+rand.Intn(28)),
	}
}

// generateClip produces a short stereo WAV tone sweep and returns it as the
// data URL a browser recorder would post.
func generateClip() (string, int, error) {
	frames := clipSampleRate * clipSeconds
	pcm := make([]byte, 0, frames*clipChannels*2)

	for i := 0; i < frames; i++ {
		t := float64(i) / clipSampleRate
		freq := toneBaseHz + (toneSweepHz-toneBaseHz)*t/clipSeconds
		sample := int16(math.Sin(2*math.Pi*freq*t) * 0.4 * math.MaxInt16)
		for ch := 0; ch < clipChannels; ch++ {
			pcm = append(pcm, byte(sample), byte(sample>>8))
		}
	}

	wavData, err := audio.WrapPCM16(pcm, clipSampleRate, clipChannels)
	if err != nil {
		return "", 0, fmt.Errorf("failed to build clip: %w", err)
	}

	dataURL := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wavData)
	return dataURL, len(wavData), nil
}
