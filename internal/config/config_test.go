package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/swingiq/internal/config"
	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.HistoryLimit, convey.ShouldEqual, 100)
			convey.So(cfg.StoreKind, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Origins(t *testing.T) {
	convey.Convey("Given a comma-separated origin list", t, func() {
		cfg := config.New(context.Background())
		cfg.CORSOrigins = " https://a.example , ,https://b.example"

		convey.Convey("Then blanks are dropped and entries trimmed", func() {
			convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		cases := []struct {
			name   string
			mutate func()
		}{
			{"empty addr", func() { cfg.Addr = "" }},
			{"zero queue", func() { cfg.QueueSize = 0 }},
			{"zero history", func() { cfg.HistoryLimit = 0 }},
			{"negative rate", func() { cfg.SubmitRate = -1 }},
			{"rate without burst", func() { cfg.SubmitBurst = 0 }},
			{"bad log format", func() { cfg.LogFormat = "xml" }},
			{"unknown store", func() { cfg.StoreKind = "redis" }},
			{"postgres without url", func() { cfg.StoreKind = config.StorePostgres }},
			{"unknown default profile", func() { cfg.DefaultProfile = "Nobody" }},
			{"unknown benchmark", func() { cfg.Benchmarks = map[string]benchmark.Override{"nope": {}} }},
			{"inverted benchmark", func() {
				cfg.Benchmarks = map[string]benchmark.Override{benchmark.MetricKneeAngle: {OptimalMin: ptr(200)}}
			}},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate()

				convey.Convey("Then it is invalid", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When it names a known default profile and a valid override", func() {
			cfg.DefaultProfile = "freeman"
			cfg.Benchmarks = map[string]benchmark.Override{benchmark.MetricKneeAngle: {OptimalMin: ptr(140)}}

			convey.Convey("Then it is valid and the tables carry the override", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
				tables, err := cfg.Tables()
				convey.So(err, convey.ShouldBeNil)
				r, ok := tables.Range(benchmark.MetricKneeAngle)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(r.Optimal.Min, convey.ShouldEqual, 140)
			})
		})
	})
}
