package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS swing_analyses (
	analysis_id TEXT PRIMARY KEY,
	athlete_id  TEXT        NOT NULL,
	captured_at TIMESTAMPTZ NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL,
	payload     JSONB       NOT NULL
);
CREATE INDEX IF NOT EXISTS swing_analyses_athlete_idx
	ON swing_analyses (athlete_id, captured_at DESC, analyzed_at DESC);`

const (
	insertAnalysis = `INSERT INTO swing_analyses (analysis_id, athlete_id, captured_at, analyzed_at, payload)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (analysis_id) DO NOTHING`
	selectAnalysis  = `SELECT payload FROM swing_analyses WHERE analysis_id = $1`
	selectByAthlete = `SELECT payload FROM swing_analyses WHERE athlete_id = $1
ORDER BY captured_at DESC, analyzed_at DESC, analysis_id LIMIT $2`
	countAnalyses = `SELECT count(*) FROM swing_analyses`
)

// PostgresStore persists analyses as JSONB rows through a pgx pool.
type PostgresStore struct {
	pool     *pgxpool.Pool
	maxLimit int
}

// NewPostgresStore connects to databaseURL, verifies connectivity and
// creates the schema when missing.
func NewPostgresStore(ctx context.Context, databaseURL string, opts ...PostgresOption) (*PostgresStore, error) {
	o := postgresOptions{maxConns: 10, minConns: 1, maxConnLife: time.Hour, maxLimit: defaultHistoryLimit}
	for _, opt := range opts {
		opt(&o)
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MinConns = o.minConns
	poolCfg.MaxConns = o.maxConns
	poolCfg.MaxConnLifetime = o.maxConnLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool, maxLimit: o.maxLimit}, nil
}

// Save inserts a. A conflicting id yields ErrDuplicate.
func (s *PostgresStore) Save(ctx context.Context, a model.SwingAnalysis) error { //nolint:gocritic // hugeParam: matches Store
	start := time.Now()
	defer observe("save", start)

	if a.AnalysisID == "" {
		return fmt.Errorf("save: %w: empty analysis id", model.ErrInvalidRecord)
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("save %s: encode: %w", a.AnalysisID, err)
	}
	tag, err := s.pool.Exec(ctx, insertAnalysis, a.AnalysisID, a.AthleteID, a.CapturedAt, a.AnalyzedAt, payload)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "write_failed")
		return fmt.Errorf("save %s: %w", a.AnalysisID, err)
	}
	if tag.RowsAffected() == 0 {
		metrics.RecordErrorByComponent("repository", "duplicate")
		return fmt.Errorf("save %s: %w", a.AnalysisID, ErrDuplicate)
	}
	return nil
}

// Get loads one analysis by id.
func (s *PostgresStore) Get(ctx context.Context, analysisID string) (model.SwingAnalysis, error) {
	start := time.Now()
	defer observe("get", start)

	var payload []byte
	err := s.pool.QueryRow(ctx, selectAnalysis, analysisID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.SwingAnalysis{}, fmt.Errorf("get %s: %w", analysisID, ErrNotFound)
	}
	if err != nil {
		return model.SwingAnalysis{}, fmt.Errorf("get %s: %w", analysisID, err)
	}
	var a model.SwingAnalysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return model.SwingAnalysis{}, fmt.Errorf("get %s: decode: %w", analysisID, err)
	}
	return a, nil
}

// ListByAthlete returns the athlete's newest analyses.
func (s *PostgresStore) ListByAthlete(ctx context.Context, athleteID string, limit int) ([]model.SwingAnalysis, error) {
	start := time.Now()
	defer observe("list", start)

	if limit <= 0 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, fmt.Errorf("list %s: %w: %d", athleteID, ErrInvalidLimit, limit)
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	rows, err := s.pool.Query(ctx, selectByAthlete, athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", athleteID, err)
	}
	defer rows.Close()

	out := []model.SwingAnalysis{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("list %s: scan: %w", athleteID, err)
		}
		var a model.SwingAnalysis
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("list %s: decode: %w", athleteID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", athleteID, err)
	}
	return out, nil
}

// Count returns the number of stored analyses, or 0 when the query fails.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int64
	if err := s.pool.QueryRow(ctx, countAnalyses).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count_failed")
		return 0
	}
	metrics.UpdateRepositoryRecords(int(n))
	return int(n)
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
