package api

import (
	"net/http"

	"github.com/okian/swingiq/internal/domain/phase"
)

// PhasesHandler serves phase detection and validation.
type PhasesHandler struct {
	deps Dependencies
}

// NewPhasesHandler creates a new phases handler.
func NewPhasesHandler(deps Dependencies) *PhasesHandler {
	return &PhasesHandler{deps: deps}
}

// HandleDetect handles POST /phases/detect with a pose time series body.
func (h *PhasesHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	const op = "api.phases_detect"
	var s phase.PoseTimeSeries
	if err := decodeJSON(w, r, op, &s); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	det, err := h.deps.Analyzer().Detector().Detect(s)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, det)
}

type validateRequest struct {
	Profile string        `json:"profile"`
	Markers phase.Markers `json:"markers"`
}

// HandleValidate handles POST /phases/validate.
func (h *PhasesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.phases_validate"
	var req validateRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	a := h.deps.Analyzer()
	p, err := a.Tables().Profile(req.Profile)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Validator().Validate(req.Markers, p))
}

// HandleEdgeCases handles GET /phases/edge-cases.
func (h *PhasesHandler) HandleEdgeCases(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Analyzer().Validator().EdgeCases())
}

// HandleCatalogue handles GET /phases/catalogue: every profile's
// reference swing validated against itself.
func (h *PhasesHandler) HandleCatalogue(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Analyzer().Validator().Catalogue())
}
