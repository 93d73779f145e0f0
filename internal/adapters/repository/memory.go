package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/pkg/metrics"
)

const (
	defaultHistoryLimit          = 100
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore keeps analyses in process memory. Per-athlete id lists are
// kept in history order so ListByAthlete is a slice copy.
type MemoryStore struct {
	mu        sync.RWMutex
	byID      map[string]model.SwingAnalysis
	byAthlete map[string][]string

	maxLimit              int
	metricsUpdateInterval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an empty store and starts its metrics updater,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]model.SwingAnalysis),
		byAthlete:             make(map[string][]string),
		maxLimit:              defaultHistoryLimit,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stop:                  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateRepositoryRecords(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Save stores a unless its id is already present.
func (s *MemoryStore) Save(_ context.Context, a model.SwingAnalysis) error { //nolint:gocritic // hugeParam: analyses are stored by value
	start := time.Now()
	defer observe("save", start)

	if a.AnalysisID == "" {
		return fmt.Errorf("save: %w: empty analysis id", model.ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[a.AnalysisID]; ok {
		metrics.RecordErrorByComponent("repository", "duplicate")
		return fmt.Errorf("save %s: %w", a.AnalysisID, ErrDuplicate)
	}
	s.byID[a.AnalysisID] = a

	ids := s.byAthlete[a.AthleteID]
	i := sort.Search(len(ids), func(i int) bool {
		cur := s.byID[ids[i]]
		return newer(&a, &cur)
	})
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = a.AnalysisID
	s.byAthlete[a.AthleteID] = ids
	return nil
}

// Get returns the analysis stored under analysisID.
func (s *MemoryStore) Get(_ context.Context, analysisID string) (model.SwingAnalysis, error) {
	start := time.Now()
	defer observe("get", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[analysisID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.SwingAnalysis{}, fmt.Errorf("get %s: %w", analysisID, ErrNotFound)
	}
	return a, nil
}

// ListByAthlete returns the athlete's newest analyses. limit must be
// positive; values above the configured history limit are clamped.
func (s *MemoryStore) ListByAthlete(_ context.Context, athleteID string, limit int) ([]model.SwingAnalysis, error) {
	start := time.Now()
	defer observe("list", start)

	if limit <= 0 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, fmt.Errorf("list %s: %w: %d", athleteID, ErrInvalidLimit, limit)
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byAthlete[athleteID]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]model.SwingAnalysis, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// Count returns the number of stored analyses.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the metrics updater. Stored data stays readable.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				metrics.UpdateRepositoryRecords(s.Count(ctx))
			}
		}
	}()
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}
