package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/pkg/logger"
	"github.com/vocalis/intake/pkg/metrics"
)

// Worker configuration constants.
const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 30 * time.Second
)

// Relayer posts a submission downstream.
type Relayer interface {
	Submit(ctx context.Context, sub model.Submission) (backend.Result, error)
}

// Tracker releases a submission ID so the form can be resubmitted after
// a failed relay.
type Tracker interface {
	Unrecord(ctx context.Context, id string)
}

// Source defines how workers receive submissions.
type Source interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker relays queued submissions to the backend.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// RelayWorker implements Worker for the detached submission path.
// Relay failures are logged and released through the tracker, never
// surfaced to the submitting request.
type RelayWorker struct {
	source  Source
	relayer Relayer
	tracker Tracker
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRelayWorker creates a new worker with configuration options.
func NewRelayWorker(source Source, relayer Relayer, tracker Tracker, opts ...WorkerOption) *RelayWorker {
	w := &RelayWorker{
		source:   source,
		relayer:  relayer,
		tracker:  tracker,
		name:     "relay",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("relay"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "relay" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *RelayWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	subs := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-subs:
			if !ok {
				return
			}
			w.relay(ctx, sub)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *RelayWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// relay posts a single submission and releases its ID on failure.
func (w *RelayWorker) relay(ctx context.Context, sub Submission) {
	result, err := w.relayer.Submit(ctx, sub)
	if err != nil {
		metrics.RecordErrorByComponent("relay", "backend_unreachable")
		w.logger.Error(ctx, "submission relay failed",
			logger.String("submissionID", sub.ID),
			logger.Error(err),
		)
		w.tracker.Unrecord(ctx, sub.ID)
		return
	}

	if !result.OK() {
		metrics.RecordErrorByComponent("relay", "backend_rejected")
		w.logger.Warn(ctx, "backend rejected submission",
			logger.String("submissionID", sub.ID),
			logger.Int("status", result.Status),
		)
		w.tracker.Unrecord(ctx, sub.ID)
		return
	}

	w.logger.Info(ctx, "submission relayed",
		logger.String("submissionID", sub.ID),
		logger.Int("status", result.Status),
	)
}

// Pool manages multiple relay workers.
type Pool struct {
	workers []*RelayWorker
	source  Source

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new relay worker pool.
func NewPool(workerCount int, source Source, relayer Relayer, tracker Tracker) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers:  make([]*RelayWorker, workerCount),
		source:   source,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("relay-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewRelayWorker(
			source,
			relayer,
			tracker,
			WithName(fmt.Sprintf("relay-%d", i)),
		)
	}

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
