package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/swingiq/internal/adapters/mq/queue"
	"github.com/okian/swingiq/internal/adapters/repository"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/pkg/logger"
	"github.com/okian/swingiq/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Outcome classifies how a record finished.
type Outcome int

// Record outcomes.
const (
	OutcomeProcessed Outcome = iota
	OutcomeDuplicate
	OutcomeFailed
)

// Analyzer turns a record into an analysis.
type Analyzer interface {
	Analyze(rec model.SwingRecord) (model.SwingAnalysis, error)
}

// Saver persists analyses.
type Saver interface {
	Save(ctx context.Context, a model.SwingAnalysis) error
}

// Queue defines how workers receive records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Record
}

// Worker processes records until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker once its current record is done.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over an in-process queue.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	saver    Saver
	name     string

	onOutcome func(Outcome)
	onDone    func(ctx context.Context, analysisID string)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		analyzer:  analyzer,
		saver:     saver,
		name:      "worker",
		onOutcome: func(Outcome) {},
		onDone:    func(context.Context, string) {},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	records := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			if err := w.process(ctx, rec); err != nil {
				w.logger.Error(ctx, "error processing record", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process analyzes one record and stores the result. A record already
// stored counts as a duplicate, not a failure. The done hook runs after
// the save attempt, so a stored id is readable before it is released.
func (w *InMemoryWorker) process(ctx context.Context, rec queue.Record) error { //nolint:gocritic // hugeParam: records travel by value through the channel
	start := time.Now()
	defer func() {
		w.onDone(ctx, rec.AnalysisID)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	a, err := w.analyzer.Analyze(rec)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analysis_error")
		w.onOutcome(OutcomeFailed)
		return fmt.Errorf("analyze %s: %w", rec.AnalysisID, err)
	}
	metrics.RecordAnalysisLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err := w.saver.Save(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordAnalysisDuplicate()
			w.onOutcome(OutcomeDuplicate)
			w.logger.Debug(ctx, "duplicate analysis skipped", logger.String("analysisID", rec.AnalysisID))
			return nil
		}
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.onOutcome(OutcomeFailed)
		return fmt.Errorf("store %s: %w", rec.AnalysisID, err)
	}

	ObserveAnalysis(a)
	w.onOutcome(OutcomeProcessed)
	return nil
}

// ObserveAnalysis exports the scores and verdicts of a to metrics.
func ObserveAnalysis(a model.SwingAnalysis) { //nolint:gocritic // hugeParam: read-only
	metrics.RecordAnalysisProcessed(string(a.Source))
	for _, as := range []quality.Assessment{a.Mechanics, a.FrontLeg, a.WeightTransfer} {
		metrics.RecordOverallScore(string(as.Kind), as.OverallScore)
	}
	for _, c := range a.NotAssessed {
		metrics.RecordComponentNotAssessed(c)
	}
	if a.Sequence != nil {
		switch {
		case !a.Sequence.Judged:
			metrics.RecordSequenceVerdict("unjudged")
		case a.Sequence.IsProperSequence:
			metrics.RecordSequenceVerdict("proper")
		default:
			metrics.RecordSequenceVerdict("improper")
		}
	}
	if a.Detection != nil {
		metrics.RecordPhaseDetection(a.Detection.Quality.Level)
	}
	if a.Validation != nil {
		for _, r := range a.Validation.Results {
			metrics.RecordValidationResult(r.TestName, string(r.Severity), r.Passed)
		}
	}
}

// Stats are the pool's lifetime counters.
type Stats struct {
	Workers    int   `json:"workers"`
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}
	stopped  atomic.Bool

	processed  atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64

	onDone func(ctx context.Context, analysisID string)

	// window counter for messages-per-second
	window     atomic.Int64
	lastWindow time.Time

	logger logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 selects a CPU-based default.
func NewPool(workerCount int, q Queue, analyzer Analyzer, saver Saver, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:    make([]*InMemoryWorker, workerCount),
		queue:      q,
		shutdown:   make(chan struct{}),
		lastWindow: time.Now(),
		logger:     logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(q, analyzer, saver,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
			WithOutcomeHook(p.record),
			WithDoneHook(p.onDone),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0)
	return p
}

func (p *Pool) record(o Outcome) {
	p.window.Add(1)
	switch o {
	case OutcomeProcessed:
		p.processed.Add(1)
	case OutcomeDuplicate:
		p.duplicates.Add(1)
	case OutcomeFailed:
		p.failed.Add(1)
	}
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:    len(p.workers),
		Processed:  p.processed.Load(),
		Duplicates: p.duplicates.Load(),
		Failed:     p.failed.Load(),
	}
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			if secs := now.Sub(p.lastWindow).Seconds(); secs > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(p.window.Swap(0)) / secs)
			}
			p.lastWindow = now
		}
	}
}

// Shutdown closes the queue and waits for workers to drain it. Workers
// exit once the queue channel is closed and empty, or when ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	close(p.shutdown)
	metrics.UpdateWorkerActiveCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
