package dispatch_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/adapters/backend"
	"github.com/vocalis/intake/internal/adapters/dispatch"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/pkg/logger"
)

type fakeRelayer struct {
	mu     sync.Mutex
	status int
	err    error
	seen   []string
}

func (f *fakeRelayer) Submit(ctx context.Context, sub model.Submission) (backend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, sub.ID)
	if f.err != nil {
		return backend.Result{}, f.err
	}
	return backend.Result{Status: f.status}, nil
}

func (f *fakeRelayer) submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

type fakeTracker struct {
	mu       sync.Mutex
	released []string
}

func (f *fakeTracker) Unrecord(ctx context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, id)
}

func (f *fakeTracker) unrecorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.released...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWorkerRelaysSubmissions(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a worker over a queue with an accepting backend", t, func() {
		q := dispatch.NewInMemoryQueue()
		relayer := &fakeRelayer{status: http.StatusOK}
		tracker := &fakeTracker{}
		w := dispatch.NewRelayWorker(q, relayer, tracker)
		go w.Run(ctx)
		defer func() {
			_ = q.Close()
			_ = w.Shutdown(context.Background())
		}()

		Convey("When a submission is enqueued", func() {
			So(q.Enqueue(ctx, submissionWithID("sub-1")), ShouldBeTrue)
			waitFor(t, func() bool { return len(relayer.submitted()) == 1 })

			Convey("Then it should reach the backend and stay recorded", func() {
				So(relayer.submitted(), ShouldContain, "sub-1")
				So(tracker.unrecorded(), ShouldBeEmpty)
			})
		})
	})
}

func TestWorkerReleasesFailedSubmissions(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a worker whose backend is unreachable", t, func() {
		q := dispatch.NewInMemoryQueue()
		relayer := &fakeRelayer{err: backend.ErrUnreachable}
		tracker := &fakeTracker{}
		w := dispatch.NewRelayWorker(q, relayer, tracker)
		go w.Run(ctx)
		defer func() {
			_ = q.Close()
			_ = w.Shutdown(context.Background())
		}()

		Convey("When a submission is enqueued", func() {
			So(q.Enqueue(ctx, submissionWithID("sub-down")), ShouldBeTrue)
			waitFor(t, func() bool { return len(tracker.unrecorded()) == 1 })

			Convey("Then the submission ID should be released for retry", func() {
				So(tracker.unrecorded(), ShouldContain, "sub-down")
			})
		})
	})

	Convey("Given a worker whose backend rejects submissions", t, func() {
		q := dispatch.NewInMemoryQueue()
		relayer := &fakeRelayer{status: http.StatusBadRequest}
		tracker := &fakeTracker{}
		w := dispatch.NewRelayWorker(q, relayer, tracker)
		go w.Run(ctx)
		defer func() {
			_ = q.Close()
			_ = w.Shutdown(context.Background())
		}()

		Convey("When a submission is enqueued", func() {
			So(q.Enqueue(ctx, submissionWithID("sub-rejected")), ShouldBeTrue)
			waitFor(t, func() bool { return len(tracker.unrecorded()) == 1 })

			Convey("Then the submission ID should be released for retry", func() {
				So(tracker.unrecorded(), ShouldContain, "sub-rejected")
			})
		})
	})
}

func TestPoolDrainsQueue(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a pool of relay workers", t, func() {
		q := dispatch.NewInMemoryQueue()
		relayer := &fakeRelayer{status: http.StatusOK}
		tracker := &fakeTracker{}
		pool := dispatch.NewPool(2, q, relayer, tracker)
		pool.Start(ctx)

		Convey("When several submissions are enqueued", func() {
			for _, id := range []string{"p-1", "p-2", "p-3", "p-4"} {
				So(q.Enqueue(ctx, submissionWithID(id)), ShouldBeTrue)
			}
			waitFor(t, func() bool { return len(relayer.submitted()) == 4 })

			Convey("Then all of them should be relayed", func() {
				So(len(relayer.submitted()), ShouldEqual, 4)
			})

			Convey("And shutdown should complete cleanly", func() {
				So(pool.Shutdown(context.Background()), ShouldBeNil)
			})
		})
	})
}
