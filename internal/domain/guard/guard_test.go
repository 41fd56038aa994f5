package guard_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/domain/guard"
)

func TestSeenAndRecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh guard", t, func() {
		g := guard.NewInMemoryGuard()

		Convey("When recording a new ID", func() {
			seen := g.SeenAndRecord(ctx, "sub-1")

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report seen", func() {
				So(g.SeenAndRecord(ctx, "sub-1"), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording distinct IDs", func() {
			So(g.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			So(g.SeenAndRecord(ctx, "sub-2"), ShouldBeFalse)

			Convey("Then both should be tracked", func() {
				So(g.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestUnrecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a guard with a recorded ID", t, func() {
		g := guard.NewInMemoryGuard()
		So(g.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)

		Convey("When unrecording it", func() {
			g.Unrecord(ctx, "sub-1")

			Convey("Then the ID can be recorded again", func() {
				So(g.Size(), ShouldEqual, 0)
				So(g.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			g.Unrecord(ctx, "sub-missing")

			Convey("Then the tracked set is unchanged", func() {
				So(g.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a guard bounded to 3 entries", t, func() {
		g := guard.NewInMemoryGuard(guard.WithMaxSize(3))

		Convey("When recording more IDs than the bound", func() {
			for i := 0; i < 5; i++ {
				So(g.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)), ShouldBeFalse)
			}

			Convey("Then the size should stay at the bound", func() {
				So(g.Size(), ShouldEqual, 3)
			})

			Convey("And the oldest IDs should have been evicted", func() {
				So(g.SeenAndRecord(ctx, "sub-0"), ShouldBeFalse)
			})
		})
	})
}

func TestRecordExpiry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a guard with a 10-minute record TTL", t, func() {
		now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		g := guard.NewInMemoryGuard(
			guard.WithTTL(10*time.Minute),
			guard.WithClock(func() time.Time { return now }),
		)
		So(g.SeenAndRecord(ctx, "alice@example.com"), ShouldBeFalse)

		Convey("When the same email arrives inside the window", func() {
			now = now.Add(5 * time.Minute)

			Convey("Then it should be refused as a duplicate", func() {
				So(g.SeenAndRecord(ctx, "alice@example.com"), ShouldBeTrue)
			})
		})

		Convey("When the same email returns after the window", func() {
			now = now.Add(11 * time.Minute)

			Convey("Then it should be allowed through again", func() {
				So(g.SeenAndRecord(ctx, "alice@example.com"), ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And the refreshed record should block an immediate repeat", func() {
				So(g.SeenAndRecord(ctx, "alice@example.com"), ShouldBeFalse)
				So(g.SeenAndRecord(ctx, "alice@example.com"), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	Convey("Given a guard shared across goroutines", t, func() {
		g := guard.NewInMemoryGuard()

		Convey("When recording the same ID concurrently", func() {
			const workers = 16
			var recorded int64
			var mu sync.Mutex
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !g.SeenAndRecord(ctx, "sub-race") {
						mu.Lock()
						recorded++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one goroutine should win", func() {
				So(recorded, ShouldEqual, 1)
				So(g.Size(), ShouldEqual, 1)
			})
		})
	})
}
