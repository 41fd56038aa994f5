// Package service provides the core intake service that implements the
// dependencies required by the HTTP API and the capture pipeline.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/adapters/dispatch"
	"github.com/vocalis/intake/internal/adapters/storage"
	"github.com/vocalis/intake/internal/domain/allowlist"
	"github.com/vocalis/intake/internal/domain/audio"
	"github.com/vocalis/intake/internal/domain/guard"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/pkg/logger"
)

// defaultGuardTTL bounds how long a relayed email blocks resubmission.
// Long enough to absorb a double-click, short enough that a returning
// client can submit again without a restart.
const defaultGuardTTL = 10 * time.Minute

// Service wires storage, transcoding, the allow-list and the submission
// relay behind the API dependency surface.
type Service struct {
	store     storage.Store
	converter *audio.Converter
	directory allowlist.Directory
	guard     guard.Guard
	queue     dispatch.Queue
	client    *backend.Client
	pool      *dispatch.Pool

	// Configuration
	uploadsDir    string
	backendURL    string
	allowlistPath string
	sheetURL      string
	queueSize     int
	guardSize     int
	guardTTL      time.Duration
	workerCount   int
	sampleRate    int
	channels      int
	sweepInterval time.Duration
	maxAudioAge   time.Duration

	// State
	started bool
	stopCh  chan struct{}
	group   *errgroup.Group

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		uploadsDir:    "public/uploads",
		backendURL:    "http://127.0.0.1:5000",
		queueSize:     1024,
		guardSize:     10000,
		guardTTL:      defaultGuardTTL,
		workerCount:   2,
		sampleRate:    4100,
		channels:      2,
		sweepInterval: time.Hour,
		maxAudioAge:   24 * time.Hour,
		stopCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and launches the background
// relay workers and the retention sweeper.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting intake service...")

	if s.store == nil {
		s.store = storage.NewDiskStore(s.uploadsDir)
	}
	if s.converter == nil {
		s.converter = audio.NewConverter(
			audio.WithSampleRate(s.sampleRate),
			audio.WithChannels(s.channels),
		)
	}
	if s.directory == nil {
		if s.sheetURL != "" {
			s.directory = allowlist.NewSheet(s.sheetURL)
		} else {
			s.directory = allowlist.NewCSVFile(s.allowlistPath)
		}
	}
	if s.guard == nil {
		s.guard = guard.NewInMemoryGuard(
			guard.WithMaxSize(s.guardSize),
			guard.WithTTL(s.guardTTL),
		)
	}
	if s.queue == nil {
		s.queue = dispatch.NewInMemoryQueue(dispatch.WithCapacity(s.queueSize))
	}
	if s.client == nil {
		s.client = backend.NewClient(s.backendURL)
	}

	s.pool = dispatch.NewPool(s.workerCount, s.queue, s.client, s.guard)
	s.pool.Start(ctx)

	s.group, _ = errgroup.WithContext(ctx)
	s.group.Go(func() error {
		s.sweepLoop(ctx)
		return nil
	})

	s.started = true
	s.logger.Info(ctx, "intake service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("uploadsDir", s.uploadsDir),
		logger.Duration("sweepInterval", s.sweepInterval),
		logger.Duration("maxAudioAge", s.maxAudioAge),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping intake service...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	if s.group != nil {
		_ = s.group.Wait()
	}

	s.started = false
	s.logger.Info(ctx, "intake service stopped")
}

// sweepLoop deletes expired recordings on a fixed interval.
func (s *Service) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			result, err := s.store.Sweep(ctx, s.maxAudioAge)
			if err != nil {
				s.logger.Error(ctx, "retention sweep failed", logger.Error(err))
				continue
			}
			if len(result.Deleted) > 0 || result.Errors > 0 {
				s.logger.Info(ctx, "retention sweep completed",
					logger.Int("deleted", len(result.Deleted)),
					logger.Int("errors", result.Errors),
				)
			}
		}
	}
}

// IngestAudio transcodes an uploaded container and persists the result.
// Transcode failures fall back to storing the original bytes, so the
// only error path is the storage write.
func (s *Service) IngestAudio(ctx context.Context, c audio.Container) (storage.Asset, error) {
	asset := s.converter.Convert(ctx, c)
	stored, err := s.store.Save(ctx, asset.Data)
	if err != nil {
		return storage.Asset{}, fmt.Errorf("save audio: %w", err)
	}
	if asset.Fallback {
		s.logger.Warn(ctx, "stored un-transcoded audio",
			logger.String("filename", stored.Filename),
			logger.String("mime", c.MIME),
		)
	}
	return stored, nil
}

// OpenAudio returns the stored bytes for filename.
func (s *Service) OpenAudio(ctx context.Context, filename string) ([]byte, error) {
	return s.store.Open(ctx, filename)
}

// RemoveAudio deletes filename. Absent files are a success.
func (s *Service) RemoveAudio(ctx context.Context, filename string) error {
	return s.store.Remove(ctx, filename)
}

// SweepAudio deletes stored files older than maxAge.
func (s *Service) SweepAudio(ctx context.Context, maxAge time.Duration) (storage.SweepResult, error) {
	return s.store.Sweep(ctx, maxAge)
}

// Authenticate resolves email against the allow-list.
func (s *Service) Authenticate(ctx context.Context, email string) (allowlist.Member, error) {
	return s.directory.Lookup(ctx, email)
}

// RelaySubmission proxies sub to the processing backend synchronously.
// The in-flight guard is marked first and released on any failure so the
// form can be retried; after a successful relay the mark expires on the
// guard TTL, so a returning client is not blocked for the process
// lifetime.
func (s *Service) RelaySubmission(ctx context.Context, sub model.Submission) (backend.Result, error) {
	sub.ID = submissionID(sub)
	if s.guard.SeenAndRecord(ctx, sub.ID) {
		return backend.Result{}, fmt.Errorf("%w: %s", guard.ErrInFlight, sub.ID)
	}

	result, err := s.client.Submit(ctx, sub)
	if err != nil {
		s.guard.Unrecord(ctx, sub.ID)
		return backend.Result{}, err
	}
	if !result.OK() {
		s.guard.Unrecord(ctx, sub.ID)
	}
	return result, nil
}

// Dispatch hands a submission to the relay workers without waiting for
// the downstream acknowledgment. Returns false when the submission is a
// duplicate or the queue refuses it; relay failures are logged by the
// workers and release the guard for a retry.
func (s *Service) Dispatch(ctx context.Context, sub model.Submission) bool {
	sub.ID = submissionID(sub)
	if s.guard.SeenAndRecord(ctx, sub.ID) {
		s.logger.Warn(ctx, "duplicate submission skipped", logger.String("submissionID", sub.ID))
		return false
	}

	if !s.queue.Enqueue(ctx, sub) {
		s.guard.Unrecord(ctx, sub.ID)
		s.logger.Warn(ctx, "dispatch queue refused submission", logger.String("submissionID", sub.ID))
		return false
	}
	return true
}

// GetStats returns current service statistics for the metrics updater.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"workerCount": s.workerCount,
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(context.Background())
	}
	if s.guard != nil {
		stats["inFlight"] = int(s.guard.Size())
	}
	return stats
}

// submissionID keys the in-flight guard. Submissions are tracked per
// email; an anonymous payload gets a one-off ID and is never deduped.
func submissionID(sub model.Submission) string {
	if email := strings.ToLower(strings.TrimSpace(sub.Email)); email != "" {
		return email
	}
	return uuid.New().String()
}
