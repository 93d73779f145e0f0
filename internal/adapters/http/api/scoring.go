package api

import (
	"fmt"
	"net/http"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/sequence"
)

// ScoringHandler serves the stateless scoring endpoints.
type ScoringHandler struct {
	deps Dependencies
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(deps Dependencies) *ScoringHandler {
	return &ScoringHandler{deps: deps}
}

type componentRequest struct {
	Metric string   `json:"metric"`
	Value  *float64 `json:"value"`
}

// HandleComponent handles POST /score/component. A null value is scored N/A.
func (h *ScoringHandler) HandleComponent(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_component"
	var req componentRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	a := h.deps.Analyzer()
	if _, ok := a.Tables().Range(req.Metric); !ok {
		writeDomainError(w, op, fmt.Errorf("%w: %q", benchmark.ErrUnknownMetric, req.Metric))
		return
	}
	writeJSON(w, http.StatusOK, a.Scorer().Score(req.Metric, req.Value))
}

// HandleQuality handles POST /quality/{kind} where kind is mechanics,
// front-leg or weight-transfer. The body uses the record metrics schema;
// fields the engine does not read are ignored.
func (h *ScoringHandler) HandleQuality(w http.ResponseWriter, r *http.Request) {
	const op = "api.quality"
	kind := r.PathValue("kind")
	switch kind {
	case "mechanics", "front-leg", "weight-transfer":
	default:
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: unknown assessment %q", op, kind))
		return
	}

	var m model.Metrics
	if err := decodeJSON(w, r, op, &m); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	a := h.deps.Analyzer()
	e, s := a.Engines(), a.Scorer()
	var out quality.Assessment
	switch kind {
	case "mechanics":
		out = e.SwingMechanics(s.Direction(m.AttackAngle), s.Timing(m.TempoRatio),
			s.Efficiency(m.PelvisVelocity, m.TorsoVelocity), m.BatSpeed)
	case "front-leg":
		out = e.FrontLegStability(m.KneeAngle, m.AnkleAngle, m.DecelerationRate)
	case "weight-transfer":
		out = e.WeightTransfer(m.COMVertical, m.COMTimingPeak, m.BackFootLift, m.COMAccelPeak)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSequence handles POST /sequence.
func (h *ScoringHandler) HandleSequence(w http.ResponseWriter, r *http.Request) {
	var t sequence.Timings
	if err := decodeJSON(w, r, "api.sequence", &t); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, sequence.Analyze(t))
}

// HandleProfiles handles GET /profiles.
func (h *ScoringHandler) HandleProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Analyzer().Tables().Profiles)
}
