package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vocalis/intake/pkg/logger"
)

// Run executes the complete intake journey against a running service:
// health check, login, recording upload, playback probe, client submission
// and session invalidation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting intake smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("email", config.Email),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client, err := newHTTPClient(config.Timeout)
	if err != nil {
		return fmt.Errorf("client setup failed: %w", err)
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	stats.StepsCompleted++

	// Step 2: Log in with the allow-listed email
	login, err := performLogin(ctx, client, config)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	stats.StepsCompleted++

	// Step 3: Upload a synthetic recording
	upload, uploadedBytes, err := uploadRecording(ctx, client, config)
	if err != nil {
		return fmt.Errorf("recording upload failed: %w", err)
	}
	stats.UploadedBytes = uploadedBytes
	stats.Filename = upload.Filename
	stats.StepsCompleted++

	// Step 4: Fetch the recording back the way the playback widget does
	served, err := verifyPlayback(ctx, client, config, upload)
	if err != nil {
		return fmt.Errorf("playback verification failed: %w", err)
	}
	stats.ServedBytes = served
	stats.StepsCompleted++

	// Step 5: Submit the client form
	if err := submitClient(ctx, client, config, login, upload); err != nil {
		return fmt.Errorf("client submission failed: %w", err)
	}
	stats.StepsCompleted++

	// Step 6: Verify the session was invalidated by the hand-off
	if err := verifySessionCleared(ctx, client, config); err != nil {
		return fmt.Errorf("session verification failed: %w", err)
	}
	stats.StepsCompleted++

	// Step 7: Clean up the uploaded recording unless asked to keep it
	if !config.KeepRecording {
		if err := deleteRecording(ctx, client, config, upload); err != nil {
			logger.Get().Warn(ctx, "failed to clean up recording", logger.Error(err))
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Any 200 response is healthy (the endpoint returns Prometheus metrics)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// performLogin authenticates against the allow-list and keeps the issued
// session cookie in the client jar.
func performLogin(ctx context.Context, client *HTTPClient, config *Config) (*LoginResponse, error) {
	logger.Get().Info(ctx, "logging in", logger.String("email", config.Email))

	resp, err := client.PostJSON(ctx, config.BaseURL+"/login", map[string]string{"email": config.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to reach login endpoint: %w", err)
	}

	var login LoginResponse
	if err := decodeResponse(resp, &login); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK || !login.Success {
		detail := login.Error
		if detail == "" {
			detail = login.Message
		}
		return nil, fmt.Errorf("login rejected with status %d: %s", resp.StatusCode, detail)
	}

	logger.Get().Info(ctx, "login granted", logger.String("name", login.UserData.Name))
	return &login, nil
}

// uploadRecording posts a synthetic clip and returns the upload response.
func uploadRecording(ctx context.Context, client *HTTPClient, config *Config) (*UploadResponse, int, error) {
	dataURL, size, err := generateClip()
	if err != nil {
		return nil, 0, err
	}

	logger.Get().Info(ctx, "uploading recording", logger.Int("bytes", size))

	resp, err := client.PostAudioForm(ctx, config.BaseURL+"/upload-audio", dataURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach upload endpoint: %w", err)
	}

	var upload UploadResponse
	if err := decodeResponse(resp, &upload); err != nil {
		return nil, 0, err
	}
	if err := verifyUpload(resp.StatusCode, &upload); err != nil {
		return nil, 0, err
	}

	logger.Get().Info(ctx, "recording uploaded",
		logger.String("filename", upload.Filename),
		logger.String("audioURL", upload.AudioURL))
	return &upload, size, nil
}

// submitClient posts the intake form referencing the uploaded recording.
func submitClient(ctx context.Context, client *HTTPClient, config *Config, login *LoginResponse, upload *UploadResponse) error {
	profile := generateProfile(config.Email)
	profile.AudioURL = upload.AudioURL
	if login.UserData.Name != "" {
		profile.FirstName = login.UserData.Name
	}

	logger.Get().Info(ctx, "submitting client",
		logger.String("firstName", profile.FirstName),
		logger.String("lastName", profile.LastName))

	resp, err := client.PostJSON(ctx, config.BaseURL+"/submit-client", profile)
	if err != nil {
		return fmt.Errorf("failed to reach submit endpoint: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submission rejected with status %d: %s", resp.StatusCode, string(body))
	}

	logger.Get().Info(ctx, "client submitted", logger.Int("status", resp.StatusCode))
	return nil
}

// deleteRecording removes the uploaded clip after the run.
func deleteRecording(ctx context.Context, client *HTTPClient, config *Config, upload *UploadResponse) error {
	resp, err := client.Delete(ctx, config.BaseURL+"/delete-audio/"+upload.Filename)
	if err != nil {
		return fmt.Errorf("failed to reach delete endpoint: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read delete response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "recording cleaned up", logger.String("filename", upload.Filename))
	return nil
}

// displayFinalStats prints the final smoke test statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("stepsCompleted", stats.StepsCompleted),
		logger.Int("uploadedBytes", stats.UploadedBytes),
		logger.Int("servedBytes", stats.ServedBytes),
		logger.String("filename", stats.Filename),
		logger.String("duration", stats.Duration.String()))
}
