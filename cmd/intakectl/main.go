// intakectl is the operator CLI: it records a voice sample from the local
// microphone, runs the end-to-end smoke test against a deployed service,
// and sweeps stale recordings out of an uploads directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocalis/intake/internal/adapters/device"
	"github.com/vocalis/intake/internal/adapters/storage"
	app "github.com/vocalis/intake/internal/app"
	"github.com/vocalis/intake/internal/config"
	"github.com/vocalis/intake/internal/domain/capture"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/internal/smoketest"
	"github.com/vocalis/intake/pkg/logger"
)

const (
	defaultBaseURL    = "http://localhost:9080"
	defaultBackendURL = "http://127.0.0.1:5000"
	defaultUploadsDir = "public/uploads"
	defaultTimeout    = 30 * time.Second
)

func main() {
	root := &cobra.Command{
		Use:           "intakectl",
		Short:         "Operations tooling for the voice intake service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRecordCommand())
	root.AddCommand(newSmokeCommand())
	root.AddCommand(newSweepCommand())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newRecordCommand() *cobra.Command {
	var (
		seconds    int
		uploadsDir string
		backendURL string
		publicURL  string
		email      string
		submit     bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a voice sample from the default microphone",
		Long: `Records from the default input device, transcodes the sample into the
canonical WAV format and stores it in the uploads directory. With --submit
the recording is handed to the relay workers as a detached submission.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if seconds <= 0 || seconds > config.DefaultRecordSeconds {
				seconds = config.DefaultRecordSeconds
			}
			if submit && email == "" {
				return fmt.Errorf("--submit requires --email")
			}

			ctx := cmd.Context()

			svc := app.New(
				app.WithUploadsDir(uploadsDir),
				app.WithBackendURL(backendURL),
			)
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			defer svc.Stop()

			return runRecording(ctx, svc, seconds, publicURL, email, submit)
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", config.DefaultRecordSeconds, "Recording length in seconds (capped at 10)")
	cmd.Flags().StringVar(&uploadsDir, "uploads", defaultUploadsDir, "Directory for stored recordings")
	cmd.Flags().StringVar(&backendURL, "backend", defaultBackendURL, "Processing backend base URL")
	cmd.Flags().StringVar(&publicURL, "public-url", defaultBaseURL, "Public base URL used to build the recording URL")
	cmd.Flags().StringVar(&email, "email", "", "Client email attached to a submitted recording")
	cmd.Flags().BoolVar(&submit, "submit", false, "Hand the recording to the relay workers after storing it")

	return cmd
}

// runRecording drives one capture session with a visible countdown.
func runRecording(ctx context.Context, svc *app.Service, seconds int, publicURL, email string, submit bool) error {
	engine := capture.NewEngine(device.NewMicrophone(), capture.WithStreamConfig(capture.StreamConfig{
		SampleRate: config.DefaultSampleRate,
		Channels:   config.DefaultChannels,
		BitDepth:   config.DefaultBitDepth,
	}))

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	fmt.Printf("Recording for up to %d seconds. Press Ctrl-C to stop early.\n", seconds)

	remaining := seconds
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

countdown:
	for remaining > 0 {
		fmt.Printf("\r%2ds remaining", remaining)
		select {
		case <-ctx.Done():
			break countdown
		case <-ticker.C:
			remaining--
		}
	}
	fmt.Println()

	// Finalize with a fresh context: the countdown context may already be
	// canceled when the operator stopped early.
	container, err := engine.Stop(context.Background())
	if err != nil {
		return fmt.Errorf("failed to finalize recording: %w", err)
	}

	asset, err := svc.IngestAudio(context.Background(), container)
	if err != nil {
		return fmt.Errorf("failed to store recording: %w", err)
	}
	fmt.Printf("Stored %s (%d bytes)\n", asset.Filename, asset.Size)

	if !submit {
		return nil
	}

	sub := model.Submission{
		Email:    email,
		AudioURL: publicURL + "/serve-audio/" + asset.Filename,
	}
	if !svc.Dispatch(context.Background(), sub) {
		return fmt.Errorf("submission was refused (duplicate or full queue)")
	}
	fmt.Println("Submission handed to the relay workers.")
	return nil
}

func newSmokeCommand() *cobra.Command {
	var (
		baseURL string
		email   string
		timeout time.Duration
		keep    bool
		logFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the end-to-end intake journey against a running service",
		Long: `Exercises the full flow against a deployed service: health check, login
with an allow-listed email, recording upload, playback probe, client
submission and session invalidation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if err := smoketest.SetupLogging(logFile); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			return smoketest.Run(cmd.Context(), &smoketest.Config{
				BaseURL:       baseURL,
				Email:         email,
				Timeout:       timeout,
				KeepRecording: keep,
				LogFile:       logFile,
				Verbose:       verbose,
			})
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", defaultBaseURL, "Base URL of the service")
	cmd.Flags().StringVar(&email, "email", "", "Allow-listed email used for login")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the uploaded recording in place after the run")
	cmd.Flags().StringVar(&logFile, "log", "", "Log file for test output (default: smoke_log_TIMESTAMP.log)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

func newSweepCommand() *cobra.Command {
	var (
		uploadsDir string
		maxAge     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete recordings older than the retention age",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			store := storage.NewDiskStore(uploadsDir)
			result, err := store.Sweep(cmd.Context(), maxAge)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			fmt.Printf("Deleted %d recording(s), %d error(s)\n", len(result.Deleted), result.Errors)
			for _, name := range result.Deleted {
				fmt.Println("  " + name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uploadsDir, "uploads", defaultUploadsDir, "Directory holding stored recordings")
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Retention age threshold")

	return cmd
}
