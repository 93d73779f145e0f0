package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/swingiq/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an id is new", func() {
			seen := d.SeenAndRecord(ctx, "a-1")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is resubmitted", func() {
			d.SeenAndRecord(ctx, "a-1")
			seen := d.SeenAndRecord(ctx, "a-1")

			Convey("Then it is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "a-1")
			d.Unrecord(ctx, "a-1")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be submitted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "a-1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"a", "b", "c", "d"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("Then the oldest id is forgotten first", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
		})

		Convey("When a slot was freed by Unrecord", func() {
			d.Unrecord(ctx, "c")
			So(d.SeenAndRecord(ctx, "e"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "f"), ShouldBeFalse)

			Convey("Then eviction only drops ids that still own their slot", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "e"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "f"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("a-%d", i))
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "a-0"), ShouldBeTrue)
		})
	})
}

func TestInMemoryDeduper_Concurrent(t *testing.T) {
	Convey("Given many goroutines submitting the same ids", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh = map[string]int{}
		)
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					id := fmt.Sprintf("a-%d", i)
					if !d.SeenAndRecord(ctx, id) {
						mu.Lock()
						fresh[id]++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is accepted exactly once", func() {
			So(len(fresh), ShouldEqual, 100)
			for _, n := range fresh {
				So(n, ShouldEqual, 1)
			}
		})
	})
}
