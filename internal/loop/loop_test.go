package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoop(t *testing.T) {
	Convey("Given a running loop", t, func() {
		l := New(16)
		result := make(chan error, 1)
		go func() {
			result <- l.Run(context.Background())
		}()

		Convey("Posted functions run in order on one goroutine", func() {
			var got []int
			var wg sync.WaitGroup
			wg.Add(3)
			for i := 1; i <= 3; i++ {
				i := i
				So(l.Post(func() {
					got = append(got, i)
					wg.Done()
				}), ShouldBeTrue)
			}
			wg.Wait()
			So(got, ShouldResemble, []int{1, 2, 3})
			l.Stop()
			So(<-result, ShouldBeNil)
		})

		Convey("A function can stop the loop", func() {
			So(l.Post(l.Stop), ShouldBeTrue)
			So(<-result, ShouldBeNil)

			Convey("And later posts are rejected", func() {
				So(l.Post(func() {}), ShouldBeFalse)
			})
		})

		Convey("Stop is idempotent", func() {
			l.Stop()
			l.Stop()
			So(<-result, ShouldBeNil)
			select {
			case <-l.Done():
			case <-time.After(time.Second):
				t.Fatal("done not closed")
			}
		})
	})

	Convey("Given a cancelled context", t, func() {
		l := New(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		So(l.Run(ctx), ShouldEqual, context.Canceled)
		So(l.Post(func() {}), ShouldBeFalse)
	})
}
