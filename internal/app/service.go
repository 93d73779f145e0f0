// Package service wires the analyzer, queue, worker pool and store into
// the operations the HTTP API and CLI call.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/swingiq/internal/adapters/mq/queue"
	"github.com/okian/swingiq/internal/adapters/mq/worker"
	"github.com/okian/swingiq/internal/adapters/repository"
	"github.com/okian/swingiq/internal/domain/analysis"
	"github.com/okian/swingiq/internal/domain/dedupe"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/pkg/logger"
	"github.com/okian/swingiq/pkg/metrics"
)

// Service owns the swing analysis pipeline.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	analyzer *analysis.Analyzer
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	historyLimit int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued records.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many accepted ids are remembered in flight.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistoryLimit sets the default and maximum page size for History.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithStore sets the analysis store. Defaults to a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAnalyzer sets the analyzer. Defaults to the built-in tables.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Call Start before submitting records.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    10000,
		dedupeSize:   50000,
		historyLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.analyzer == nil {
		s.analyzer = analysis.New()
	}
	return s
}

// Start creates the queue and worker pool and starts processing.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx, repository.WithHistoryLimit(s.historyLimit))
		s.logger.Info(ctx, "using memory store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.analyzer, s.store,
		worker.WithPoolLogger(s.logger),
		worker.WithPoolDoneHook(s.deduper.Unrecord),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "swing analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("historyLimit", s.historyLimit),
	)
	return nil
}

// Stop drains the queue and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping swing analysis service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	s.started = false
	s.logger.Info(ctx, "swing analysis service stopped")
	return errors.Join(errs...)
}

// Analyzer returns the analyzer used for every record.
func (s *Service) Analyzer() *analysis.Analyzer { return s.analyzer }

// Submit validates rec and queues it for analysis. It returns the analysis
// id, generating one when rec has none. A record Analyze would reject is
// refused here. A known id yields ErrDuplicate and a full queue yields
// ErrBackpressure.
func (s *Service) Submit(ctx context.Context, rec model.SwingRecord) (string, error) { //nolint:gocritic // hugeParam: records travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	if err := prepare(&rec); err != nil {
		return "", err
	}
	if err := s.analyzer.Check(rec); err != nil {
		return "", err
	}
	metrics.RecordAnalysisSubmitted()

	if _, err := s.store.Get(ctx, rec.AnalysisID); err == nil {
		metrics.RecordAnalysisDuplicate()
		return rec.AnalysisID, fmt.Errorf("submit %s: %w", rec.AnalysisID, ErrDuplicate)
	}
	if s.deduper.SeenAndRecord(ctx, rec.AnalysisID) {
		metrics.RecordAnalysisDuplicate()
		return rec.AnalysisID, fmt.Errorf("submit %s: %w", rec.AnalysisID, ErrDuplicate)
	}

	if err := s.queue.EnqueueErr(ctx, rec); err != nil {
		s.deduper.Unrecord(ctx, rec.AnalysisID)
		if errors.Is(err, queue.ErrFull) {
			return "", fmt.Errorf("submit %s: %w", rec.AnalysisID, ErrBackpressure)
		}
		return "", fmt.Errorf("submit %s: %w", rec.AnalysisID, err)
	}

	s.logger.Debug(ctx, "record queued",
		logger.String("analysisID", rec.AnalysisID),
		logger.String("athleteID", rec.AthleteID),
	)
	return rec.AnalysisID, nil
}

// AnalyzeNow analyzes rec synchronously without storing the result.
func (s *Service) AnalyzeNow(_ context.Context, rec model.SwingRecord) (model.SwingAnalysis, error) { //nolint:gocritic // hugeParam: records travel by value
	if err := prepare(&rec); err != nil {
		return model.SwingAnalysis{}, err
	}
	return s.analyzer.Analyze(rec)
}

// Get returns a stored analysis.
func (s *Service) Get(ctx context.Context, analysisID string) (model.SwingAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.SwingAnalysis{}, ErrNotStarted
	}
	return s.store.Get(ctx, analysisID)
}

// History returns an athlete's newest analyses. limit <= 0 selects the
// configured history limit.
func (s *Service) History(ctx context.Context, athleteID string, limit int) ([]model.SwingAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.store.ListByAthlete(ctx, athleteID, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"historyLimit": s.historyLimit,
	}
	if s.started {
		ps := s.pool.Stats()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["storedAnalyses"] = s.store.Count(ctx)
		// Ids are released once their save attempt ends, so this counts
		// queued and in-progress records only.
		stats["inFlight"] = s.deduper.Size()
		stats["processed"] = ps.Processed
		stats["duplicates"] = ps.Duplicates
		stats["failed"] = ps.Failed
	}
	return stats
}

func prepare(rec *model.SwingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.AnalysisID == "" {
		rec.AnalysisID = uuid.NewString()
	}
	return nil
}
