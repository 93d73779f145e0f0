package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry and options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("swing"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the configured names", func() {
				So(manager, ShouldNotBeNil)
				manager.analysesSubmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_swing_analyses_submitted_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registration panics on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When analysis metrics are recorded", func() {
			before := testutil.ToFloat64(globalManager.analysesSubmitted)
			RecordAnalysisSubmitted()
			RecordAnalysisProcessed("pose")
			RecordAnalysisDuplicate()
			RecordAnalysisLatency(3.5)
			RecordOverallScore("front_leg_stability", 92)
			RecordComponentNotAssessed("knee")
			RecordValidationResult("Marker order", "critical", false)
			RecordSequenceVerdict("proper")
			RecordPhaseDetection("high")

			Convey("Then counters move", func() {
				So(testutil.ToFloat64(globalManager.analysesSubmitted), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.analysesProcessed.WithLabelValues("pose")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.validationResults.WithLabelValues("Marker order", "critical", "fail")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.componentsNotAssessed.WithLabelValues("knee")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When queue and worker gauges are set", func() {
			UpdateQueueCapacity(10)
			UpdateQueueSize(4)
			UpdateQueueUtilization(0.4)
			UpdateWorkerActiveCount(3)
			UpdateWorkerMessagesPerSecond(12.5)
			UpdateRepositoryRecords(7)

			Convey("Then gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.workerActiveCount), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.repositoryRecords), ShouldEqual, 7)
			})
		})

		Convey("When HTTP metrics are recorded", func() {
			RecordHTTPRequest("/analyses", "POST", "202")
			RecordHTTPRequestDuration("/analyses", "POST", "202", 1.2)
			RecordHTTPRateLimited("/analyses")

			Convey("Then they appear in the exposition", func() {
				So(testutil.ToFloat64(globalManager.httpRateLimited.WithLabelValues("/analyses")), ShouldBeGreaterThanOrEqualTo, 1)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "swingiq_analysis_http_requests_total")
			})
		})
	})
}
