package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/okian/swingiq/internal/app"
	"github.com/okian/swingiq/internal/domain/model"
)

// AnalysesHandler serves submission and retrieval of swing analyses.
type AnalysesHandler struct {
	deps Dependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps Dependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

type ackResponse struct {
	Status     string `json:"status"`
	AnalysisID string `json:"analysis_id"`
	Duplicate  bool   `json:"duplicate"`
}

// HandleSubmit handles POST /analyses. With ?sync=true the record is
// analyzed inline and the result returned without being stored.
func (h *AnalysesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	var rec model.SwingRecord
	if err := decodeJSON(w, r, op, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if sync, _ := strconv.ParseBool(r.URL.Query().Get("sync")); sync {
		a, err := h.deps.AnalyzeNow(r.Context(), rec)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
		return
	}

	id, err := h.deps.Submit(r.Context(), rec)
	switch {
	case errors.Is(err, service.ErrDuplicate):
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", AnalysisID: id, Duplicate: true})
	case err != nil:
		writeDomainError(w, op, err)
	default:
		w.Header().Set("Location", "/analyses/"+id)
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", AnalysisID: id})
	}
}

// HandleGet handles GET /analyses/{id}.
func (h *AnalysesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, "api.get_analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type historyResponse struct {
	AthleteID string                `json:"athlete_id"`
	Analyses  []model.SwingAnalysis `json:"analyses"`
}

// HandleHistory handles GET /athletes/{id}/analyses?limit=N.
func (h *AnalysesHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.athlete_history"
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("limit must be a positive integer, got %q", raw)))
			return
		}
		limit = n
	}

	athleteID := r.PathValue("id")
	list, err := h.deps.History(r.Context(), athleteID, limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if list == nil {
		list = []model.SwingAnalysis{}
	}
	writeJSON(w, http.StatusOK, historyResponse{AthleteID: athleteID, Analyses: list})
}
