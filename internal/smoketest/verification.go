package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/vocalis/intake/pkg/logger"
)

// verifyUpload checks the shape of a successful upload response.
func verifyUpload(statusCode int, upload *UploadResponse) error {
	if statusCode != http.StatusOK || !upload.Success {
		return fmt.Errorf("upload rejected with status %d: %s", statusCode, upload.Error)
	}
	if upload.Filename == "" {
		return fmt.Errorf("upload response missing filename")
	}
	if !strings.HasPrefix(upload.Filename, "recording_") || !strings.HasSuffix(upload.Filename, ".wav") {
		return fmt.Errorf("unexpected filename shape: %s", upload.Filename)
	}
	if !strings.Contains(upload.AudioURL, "/serve-audio/"+upload.Filename) {
		return fmt.Errorf("audio_url does not reference the stored file: %s", upload.AudioURL)
	}
	return nil
}

// verifyPlayback fetches the stored recording back and checks it looks like
// the WAV clip we uploaded.
func verifyPlayback(ctx context.Context, client *HTTPClient, config *Config, upload *UploadResponse) (int, error) {
	logger.Get().Info(ctx, "fetching recording back", logger.String("filename", upload.Filename))

	resp, err := client.Get(ctx, config.BaseURL+"/serve-audio/"+upload.Filename)
	if err != nil {
		return 0, fmt.Errorf("failed to reach serve endpoint: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, fmt.Errorf("failed to read served audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("serve failed with status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "audio/wav") {
		return 0, fmt.Errorf("unexpected content type: %s", ct)
	}
	if len(body) < 44 || string(body[:4]) != "RIFF" {
		return 0, fmt.Errorf("served bytes are not a WAV file")
	}

	logger.Get().Info(ctx, "playback verified", logger.Int("bytes", len(body)))
	return len(body), nil
}

// verifySessionCleared confirms the hand-off invalidated the session.
func verifySessionCleared(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "verifying session invalidation")

	resp, err := client.Get(ctx, config.BaseURL+"/session")
	if err != nil {
		return fmt.Errorf("failed to reach session endpoint: %w", err)
	}

	var session SessionResponse
	if err := decodeResponse(resp, &session); err != nil {
		return err
	}
	if session.Authenticated {
		return fmt.Errorf("session still authenticated after submission (email: %s)", session.UserEmail)
	}

	logger.Get().Info(ctx, "session invalidated as expected")
	return nil
}
