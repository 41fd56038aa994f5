package dispatch_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/adapters/dispatch"
	"github.com/vocalis/intake/internal/domain/model"
	"github.com/vocalis/intake/pkg/logger"
)

func submissionWithID(id string) model.Submission {
	return model.Submission{ID: id, Email: id + "@example.com"}
}

func TestQueueEnqueueDequeue(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given an in-memory queue", t, func() {
		q := dispatch.NewInMemoryQueue()
		defer func() { _ = q.Close() }()

		Convey("When enqueueing submissions", func() {
			So(q.Enqueue(ctx, submissionWithID("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, submissionWithID("b")), ShouldBeTrue)

			Convey("Then they should dequeue in order", func() {
				subs := q.Dequeue(ctx)
				first := <-subs
				second := <-subs
				So(first.ID, ShouldEqual, "a")
				So(second.ID, ShouldEqual, "b")
			})

			Convey("And Len should reflect the queued count", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestQueueCapacity(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a queue bounded to 2 submissions", t, func() {
		q := dispatch.NewInMemoryQueue(dispatch.WithCapacity(2))
		defer func() { _ = q.Close() }()

		Convey("When enqueueing past capacity", func() {
			So(q.Enqueue(ctx, submissionWithID("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, submissionWithID("b")), ShouldBeTrue)
			refused := q.Enqueue(ctx, submissionWithID("c"))

			Convey("Then the overflow enqueue should be refused", func() {
				So(refused, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestQueueClose(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a queue with buffered submissions", t, func() {
		q := dispatch.NewInMemoryQueue()
		So(q.Enqueue(ctx, submissionWithID("a")), ShouldBeTrue)

		Convey("When closing it", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then further enqueues should be refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, submissionWithID("b")), ShouldBeFalse)
			})

			Convey("And buffered submissions should drain before the channel closes", func() {
				subs := q.Dequeue(ctx)
				sub, ok := <-subs
				So(ok, ShouldBeTrue)
				So(sub.ID, ShouldEqual, "a")

				select {
				case _, ok := <-subs:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a queue shared across goroutines", t, func() {
		q := dispatch.NewInMemoryQueue(dispatch.WithCapacity(100))
		defer func() { _ = q.Close() }()

		Convey("When enqueueing concurrently", func() {
			done := make(chan bool, 20)
			for i := 0; i < 20; i++ {
				go func(n int) {
					done <- q.Enqueue(ctx, submissionWithID(fmt.Sprintf("sub-%d", n)))
				}(i)
			}
			accepted := 0
			for i := 0; i < 20; i++ {
				if <-done {
					accepted++
				}
			}

			Convey("Then all enqueues should be accepted", func() {
				So(accepted, ShouldEqual, 20)
				So(q.Len(ctx), ShouldEqual, 20)
			})
		})
	})
}
