// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/okian/swingiq/internal/app"
	"github.com/okian/swingiq/internal/domain/analysis"
	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/phase"
)

const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Submit queues a record; see service.Service.Submit for the errors.
	Submit(ctx context.Context, rec model.SwingRecord) (string, error)
	AnalyzeNow(ctx context.Context, rec model.SwingRecord) (model.SwingAnalysis, error)

	Get(ctx context.Context, analysisID string) (model.SwingAnalysis, error)
	History(ctx context.Context, athleteID string, limit int) ([]model.SwingAnalysis, error)

	// Analyzer exposes the scorers for the stateless endpoints.
	Analyzer() *analysis.Analyzer
}

// Option configures the Server.
type Option func(*Server)

// WithSubmitRate limits POST /analyses to r requests per second with the
// given burst. r <= 0 disables limiting.
func WithSubmitRate(r float64, burst int) Option {
	return func(s *Server) {
		if r > 0 && burst > 0 {
			s.submitLimiter = rate.NewLimiter(rate.Limit(r), burst)
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysesHandler *AnalysesHandler
	scoringHandler  *ScoringHandler
	phasesHandler   *PhasesHandler

	submitLimiter *rate.Limiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		analysesHandler: NewAnalysesHandler(deps),
		scoringHandler:  NewScoringHandler(deps),
		phasesHandler:   NewPhasesHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /analyses", MetricsMiddleware(
		RateLimit(s.analysesHandler.HandleSubmit, s.submitLimiter, "analyses"), "analyses"))
	mux.HandleFunc("GET /analyses/{id}", MetricsMiddleware(s.analysesHandler.HandleGet, "analysis"))
	mux.HandleFunc("GET /athletes/{id}/analyses", MetricsMiddleware(s.analysesHandler.HandleHistory, "athlete_analyses"))

	mux.HandleFunc("POST /score/component", MetricsMiddleware(s.scoringHandler.HandleComponent, "score_component"))
	mux.HandleFunc("POST /quality/{kind}", MetricsMiddleware(s.scoringHandler.HandleQuality, "quality"))
	mux.HandleFunc("POST /sequence", MetricsMiddleware(s.scoringHandler.HandleSequence, "sequence"))
	mux.HandleFunc("GET /profiles", MetricsMiddleware(s.scoringHandler.HandleProfiles, "profiles"))

	mux.HandleFunc("POST /phases/detect", MetricsMiddleware(s.phasesHandler.HandleDetect, "phases_detect"))
	mux.HandleFunc("POST /phases/validate", MetricsMiddleware(s.phasesHandler.HandleValidate, "phases_validate"))
	mux.HandleFunc("GET /phases/edge-cases", MetricsMiddleware(s.phasesHandler.HandleEdgeCases, "phases_edge_cases"))
	mux.HandleFunc("GET /phases/catalogue", MetricsMiddleware(s.phasesHandler.HandleCatalogue, "phases_catalogue"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON document from r into v. Unknown fields
// are rejected so typos in metric names surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if dec.More() {
		return WrapKind(op, ErrBadRequest, errors.New("trailing data after JSON body"))
	}
	return nil
}

// writeDomainError maps service and domain errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidRecord),
		errors.Is(err, phase.ErrInvalidSeries),
		errors.Is(err, benchmark.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, benchmark.ErrUnknownProfile),
		errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}
