package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/swingiq/internal/adapters/http/api"
	service "github.com/okian/swingiq/internal/app"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/phase"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/scoring"
	"github.com/okian/swingiq/internal/domain/sequence"
	"github.com/okian/swingiq/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newMux(t *testing.T, opts ...api.Option) (*http.ServeMux, *service.Service) {
	t.Helper()
	svc := service.New(service.WithWorkerCount(2), service.WithHistoryLimit(5))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	mux := http.NewServeMux()
	api.NewServer(svc, svc, opts...).Register(context.Background(), mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

const swingBody = `{"analysis_id":"s-1","athlete_id":"ath-1","source":"report",
	"captured_at":"2026-03-01T12:00:00Z",
	"metrics":{"knee_angle":152,"ankle_angle":12,"deceleration_rate":11.5},
	"markers":{"load_start_ms":900,"fire_start_ms":340}}`

func TestServer_Operational(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t)

		Convey("Then /healthz reports ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]string](w)["status"], ShouldEqual, "ok")
		})

		Convey("Then /metrics serves Prometheus text", func() {
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "swingiq_")
		})

		Convey("Then /stats reports the service as started", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then the wrong method is rejected by the mux", func() {
			w := do(mux, http.MethodPost, "/healthz", "{}")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServer_Analyses(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t)

		Convey("When a swing is submitted", func() {
			w := do(mux, http.MethodPost, "/analyses", swingBody)

			Convey("Then it is accepted and becomes readable", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Header().Get("Location"), ShouldEqual, "/analyses/s-1")

				var got *httptest.ResponseRecorder
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if got = do(mux, http.MethodGet, "/analyses/s-1", ""); got.Code == http.StatusOK {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(got.Code, ShouldEqual, http.StatusOK)
				a := decode[model.SwingAnalysis](got)
				So(a.FrontLeg.OverallScore, ShouldEqual, 100)
				So(*a.TempoRatio, ShouldAlmostEqual, 1.647, 0.001)

				hist := do(mux, http.MethodGet, "/athletes/ath-1/analyses?limit=3", "")
				So(hist.Code, ShouldEqual, http.StatusOK)
				So(hist.Body.String(), ShouldContainSubstring, `"analysis_id":"s-1"`)

				dup := do(mux, http.MethodPost, "/analyses", swingBody)
				So(dup.Code, ShouldEqual, http.StatusOK)
				So(dup.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When a swing is analyzed synchronously", func() {
			w := do(mux, http.MethodPost, "/analyses?sync=true", swingBody)

			Convey("Then the analysis is returned but not stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.SwingAnalysis](w).AnalysisID, ShouldEqual, "s-1")
				So(do(mux, http.MethodGet, "/analyses/s-1", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the body is malformed or incomplete", func() {
			So(do(mux, http.MethodPost, "/analyses", `{"athlete_id":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/analyses", `{"athlete_id":"a","metricz":{}}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/analyses", `{"source":"report"}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the profile is unknown", func() {
			w := do(mux, http.MethodPost, "/analyses", `{"athlete_id":"a","profile":"Nobody"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When an unknown analysis is read", func() {
			So(do(mux, http.MethodGet, "/analyses/nope", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When history is requested with a bad limit", func() {
			So(do(mux, http.MethodGet, "/athletes/ath-1/analyses?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/athletes/ath-1/analyses?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an athlete has no history", func() {
			w := do(mux, http.MethodGet, "/athletes/nobody/analyses", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"analyses":[]`)
		})
	})
}

func TestServer_RateLimit(t *testing.T) {
	Convey("Given a server limited to a burst of one submission", t, func() {
		mux, _ := newMux(t, api.WithSubmitRate(0.001, 1))

		first := do(mux, http.MethodPost, "/analyses", `{"athlete_id":"a"}`)
		second := do(mux, http.MethodPost, "/analyses", `{"athlete_id":"a"}`)

		Convey("Then the second request is throttled", func() {
			So(first.Code, ShouldEqual, http.StatusAccepted)
			So(second.Code, ShouldEqual, http.StatusTooManyRequests)
			So(second.Header().Get("Retry-After"), ShouldEqual, "1")
		})

		Convey("Then other endpoints are unaffected", func() {
			So(do(mux, http.MethodGet, "/profiles", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_Scoring(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t)

		Convey("When a component is scored", func() {
			w := do(mux, http.MethodPost, "/score/component", `{"metric":"knee_angle","value":152}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			cs := decode[scoring.ComponentScore](w)
			So(cs.Value, ShouldEqual, 100)
			So(cs.Status, ShouldEqual, scoring.StatusOptimal)
		})

		Convey("When a component value is null", func() {
			w := do(mux, http.MethodPost, "/score/component", `{"metric":"knee_angle","value":null}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[scoring.ComponentScore](w).Status, ShouldEqual, scoring.StatusNA)
		})

		Convey("When the metric is unknown", func() {
			w := do(mux, http.MethodPost, "/score/component", `{"metric":"spin_rate","value":1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When front-leg quality is requested", func() {
			w := do(mux, http.MethodPost, "/quality/front-leg", `{"knee_angle":152,"ankle_angle":12,"deceleration_rate":11.5}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			as := decode[quality.Assessment](w)
			So(as.OverallScore, ShouldEqual, 100)
			So(as.Kind, ShouldEqual, quality.KindFrontLeg)
		})

		Convey("When mechanics quality is requested", func() {
			w := do(mux, http.MethodPost, "/quality/mechanics", `{"attack_angle":11,"tempo_ratio":3,"pelvis_rotation_velocity":950,"torso_rotation_velocity":1200}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[quality.Assessment](w).OverallScore, ShouldEqual, 100)
		})

		Convey("When weight transfer quality is requested", func() {
			w := do(mux, http.MethodPost, "/quality/weight-transfer", `{"com_vertical_movement":2,"com_timing_peak":-120,"back_foot_lift":80,"com_acceleration_peak":6}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[quality.Assessment](w).OverallScore, ShouldEqual, 100)
		})

		Convey("When an unknown assessment is requested", func() {
			So(do(mux, http.MethodPost, "/quality/grip", `{}`).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a sequence is judged", func() {
			w := do(mux, http.MethodPost, "/sequence", `{"pelvis":{"peak_ms":180},"shoulder":{"peak_ms":120}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			sa := decode[sequence.Analysis](w)
			So(sa.IsProperSequence, ShouldBeTrue)
			So(*sa.PelvisShoulderGap, ShouldEqual, 60)
		})

		Convey("When profiles are listed", func() {
			w := do(mux, http.MethodGet, "/profiles", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Freeman")
		})
	})
}

func TestServer_Phases(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t)

		Convey("When markers are validated against a profile", func() {
			w := do(mux, http.MethodPost, "/phases/validate", `{"profile":"freeman","markers":{"load_start_ms":700,"fire_start_ms":200,"pelvis_peak_ms":120}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			rep := decode[phase.ValidationReport](w)
			So(rep.OverallPass, ShouldBeTrue)
			So(rep.Score, ShouldEqual, 100)
		})

		Convey("When the profile is unknown", func() {
			w := do(mux, http.MethodPost, "/phases/validate", `{"profile":"nobody","markers":{}}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a pose series is too short", func() {
			w := do(mux, http.MethodPost, "/phases/detect", `{"frames":[{"t_ms":0,"hand_speed":1}]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the edge cases are listed", func() {
			w := do(mux, http.MethodGet, "/phases/edge-cases", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			results := decode[[]phase.ValidationResult](w)
			So(len(results), ShouldEqual, 9)
			for _, r := range results {
				So(r.Passed, ShouldBeTrue)
			}
		})

		Convey("When the catalogue is listed", func() {
			w := do(mux, http.MethodGet, "/phases/catalogue", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			for _, rep := range decode[[]phase.ValidationReport](w) {
				So(rep.Score, ShouldEqual, 100)
			}
		})
	})
}
