package capture

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChunkQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bounded chunk queue", t, func() {
		q := newChunkQueue(4)

		Convey("When chunks are enqueued", func() {
			So(q.enqueue(ctx, []byte{1}), ShouldBeTrue)
			So(q.enqueue(ctx, []byte{2}), ShouldBeTrue)

			Convey("Then size should track the queued count", func() {
				So(q.size(), ShouldEqual, 2)
			})

			Convey("And drain should empty the queue in insertion order", func() {
				So(q.drain(), ShouldResemble, [][]byte{{1}, {2}})
				So(q.size(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 4; i++ {
				So(q.enqueue(ctx, []byte{byte(i)}), ShouldBeTrue)
			}

			Convey("Then further chunks should be refused without blocking", func() {
				So(q.enqueue(ctx, []byte{9}), ShouldBeFalse)
				So(q.size(), ShouldEqual, 4)
			})
		})

		Convey("When the queue has been drained", func() {
			_ = q.drain()

			Convey("Then enqueue should refuse new chunks", func() {
				So(q.enqueue(ctx, []byte{1}), ShouldBeFalse)
			})
		})
	})
}
