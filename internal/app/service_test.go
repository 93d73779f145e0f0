package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/swingiq/internal/adapters/repository"
	service "github.com/okian/swingiq/internal/app"
	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func ptr(v float64) *float64 { return &v }

func record(id string) model.SwingRecord {
	return model.SwingRecord{
		AnalysisID: id,
		AthleteID:  "athlete-1",
		Source:     model.SourceReport,
		CapturedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Metrics:    model.Metrics{KneeAngle: ptr(152), AnkleAngle: ptr(12), DecelerationRate: ptr(11.5)},
	}
}

func waitFor(svc *service.Service, id string) (model.SwingAnalysis, error) {
	deadline := time.Now().Add(2 * time.Second)
	for {
		a, err := svc.Get(context.Background(), id)
		if err == nil || time.Now().After(deadline) {
			return a, err
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// blockingStore holds every Save until release is closed.
type blockingStore struct {
	*repository.MemoryStore
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, a model.SwingAnalysis) error { //nolint:gocritic // hugeParam: matches Store
	<-b.release
	return b.MemoryStore.Save(ctx, a)
}

// flakyStore fails the first Save of every id.
type flakyStore struct {
	*repository.MemoryStore
	mu    sync.Mutex
	tried map[string]bool
}

func (f *flakyStore) Save(ctx context.Context, a model.SwingAnalysis) error { //nolint:gocritic // hugeParam: matches Store
	f.mu.Lock()
	first := !f.tried[a.AnalysisID]
	f.tried[a.AnalysisID] = true
	f.mu.Unlock()
	if first {
		return errors.New("connection reset")
	}
	return f.MemoryStore.Save(ctx, a)
}

func statsSettle(svc *service.Service, cond func(map[string]interface{}) bool) map[string]interface{} {
	deadline := time.Now().Add(2 * time.Second)
	for {
		stats := svc.GetStats()
		if cond(stats) || time.Now().After(deadline) {
			return stats
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that is not started", t, func() {
		svc := service.New()

		Convey("Then submissions and reads are refused", func() {
			_, err := svc.Submit(context.Background(), record("r1"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Get(context.Background(), "r1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Then stopping is a no-op", func() {
			So(svc.Stop(context.Background()), ShouldBeNil)
		})
	})
}

func TestService_Submit(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(100))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx) //nolint:errcheck // test cleanup

		Convey("When a record is submitted", func() {
			id, err := svc.Submit(ctx, record("r1"))
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "r1")

			Convey("Then its analysis becomes readable", func() {
				a, err := waitFor(svc, "r1")
				So(err, ShouldBeNil)
				So(a.FrontLeg.OverallScore, ShouldEqual, 100)
			})

			Convey("Then a resubmission is a duplicate", func() {
				_, err := waitFor(svc, "r1")
				So(err, ShouldBeNil)
				_, err = svc.Submit(ctx, record("r1"))
				So(errors.Is(err, service.ErrDuplicate), ShouldBeTrue)
			})
		})

		Convey("When a record has no id", func() {
			rec := record("")
			id, err := svc.Submit(ctx, rec)

			Convey("Then one is generated", func() {
				So(err, ShouldBeNil)
				So(len(id), ShouldEqual, 36)
			})
		})

		Convey("When a record has no athlete", func() {
			rec := record("r2")
			rec.AthleteID = ""
			_, err := svc.Submit(ctx, rec)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When a record names an unknown profile", func() {
			rec := record("r3")
			rec.Profile = "Nobody"
			_, err := svc.Submit(ctx, rec)

			Convey("Then it is rejected before queueing", func() {
				So(errors.Is(err, benchmark.ErrUnknownProfile), ShouldBeTrue)
				_, err = svc.Submit(ctx, record("r3"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When history is requested", func() {
			for i := 0; i < 3; i++ {
				rec := record(fmt.Sprintf("h%d", i))
				rec.AthleteID = "athlete-h"
				rec.CapturedAt = rec.CapturedAt.Add(time.Duration(i) * time.Minute)
				_, err := svc.Submit(ctx, rec)
				So(err, ShouldBeNil)
			}
			for i := 0; i < 3; i++ {
				_, err := waitFor(svc, fmt.Sprintf("h%d", i))
				So(err, ShouldBeNil)
			}

			Convey("Then it is newest first", func() {
				hist, err := svc.History(ctx, "athlete-h", 2)
				So(err, ShouldBeNil)
				So(len(hist), ShouldEqual, 2)
				So(hist[0].AnalysisID, ShouldEqual, "h2")
				So(hist[1].AnalysisID, ShouldEqual, "h1")

				all, err := svc.History(ctx, "athlete-h", 0)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 3)
			})

			Convey("Then stats count the processed records", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["storedAnalyses"], ShouldEqual, 3)
				So(stats["processed"], ShouldEqual, int64(3))
			})
		})

		Convey("When an unknown id is read", func() {
			_, err := svc.Get(ctx, "missing")

			Convey("Then it is not found", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Backpressure(t *testing.T) {
	Convey("Given a service whose only worker is stuck", t, func() {
		ctx := context.Background()
		store := &blockingStore{MemoryStore: repository.NewMemoryStore(ctx), release: make(chan struct{})}
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(1), service.WithStore(store))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When records keep arriving", func() {
			var rejected error
			var rejectedID string
			for i := 0; i < 10 && rejected == nil; i++ {
				id := fmt.Sprintf("bp%d", i)
				if _, err := svc.Submit(ctx, record(id)); err != nil {
					rejected, rejectedID = err, id
				}
				time.Sleep(5 * time.Millisecond)
			}

			Convey("Then the queue pushes back and the id stays submittable", func() {
				So(errors.Is(rejected, service.ErrBackpressure), ShouldBeTrue)
				close(store.release)
				So(svc.Stop(ctx), ShouldBeNil)

				So(svc.Start(ctx), ShouldBeNil)
				_, err := svc.Submit(ctx, record(rejectedID))
				So(err, ShouldBeNil)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_SaveFailure(t *testing.T) {
	Convey("Given a service whose store fails the first write", t, func() {
		ctx := context.Background()
		store := &flakyStore{MemoryStore: repository.NewMemoryStore(ctx), tried: map[string]bool{}}
		svc := service.New(service.WithWorkerCount(1), service.WithStore(store))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When a record is submitted", func() {
			_, err := svc.Submit(ctx, record("f1"))
			So(err, ShouldBeNil)
			stats := statsSettle(svc, func(st map[string]interface{}) bool {
				return st["failed"] == int64(1) && st["inFlight"] == int64(0)
			})

			Convey("Then the failed id is no longer in flight", func() {
				So(stats["failed"], ShouldEqual, int64(1))
				So(stats["inFlight"], ShouldEqual, int64(0))
				So(stats["storedAnalyses"], ShouldEqual, 0)
			})

			Convey("Then a resubmission is accepted and stored", func() {
				_, err := svc.Submit(ctx, record("f1"))
				So(err, ShouldBeNil)
				a, err := waitFor(svc, "f1")
				So(err, ShouldBeNil)
				So(a.AnalysisID, ShouldEqual, "f1")
			})
		})

		Convey("When a record is stored", func() {
			store.mu.Lock()
			store.tried["s1"] = true
			store.mu.Unlock()
			_, err := svc.Submit(ctx, record("s1"))
			So(err, ShouldBeNil)
			_, err = waitFor(svc, "s1")
			So(err, ShouldBeNil)

			Convey("Then it leaves flight and a resubmission is still a duplicate", func() {
				stats := statsSettle(svc, func(st map[string]interface{}) bool { return st["inFlight"] == int64(0) })
				So(stats["inFlight"], ShouldEqual, int64(0))
				_, err := svc.Submit(ctx, record("s1"))
				So(errors.Is(err, service.ErrDuplicate), ShouldBeTrue)
			})
		})
	})
}

func TestService_AnalyzeNow(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When a record is analyzed synchronously", func() {
			a, err := svc.AnalyzeNow(context.Background(), record(""))

			Convey("Then the result is returned with a generated id", func() {
				So(err, ShouldBeNil)
				So(a.AnalysisID, ShouldNotBeEmpty)
				So(a.FrontLeg.OverallScore, ShouldEqual, 100)
			})
		})
	})
}
