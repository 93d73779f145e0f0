// Package repository persists swing analyses.
package repository

import (
	"context"

	"github.com/okian/swingiq/internal/domain/model"
)

// Store provides read/write access to analysis results.
type Store interface {
	// Save inserts a if no analysis with the same id exists.
	// Returns ErrDuplicate otherwise.
	Save(ctx context.Context, a model.SwingAnalysis) error

	// Get returns the analysis with the given id or ErrNotFound.
	Get(ctx context.Context, analysisID string) (model.SwingAnalysis, error)

	// ListByAthlete returns up to limit analyses for an athlete, newest
	// capture first. Ties are broken by analysis time, newest first.
	ListByAthlete(ctx context.Context, athleteID string, limit int) ([]model.SwingAnalysis, error)

	// Count returns the number of stored analyses.
	Count(ctx context.Context) int

	Close() error
}

// newer reports whether a sorts before b in history order.
func newer(a, b *model.SwingAnalysis) bool {
	if !a.CapturedAt.Equal(b.CapturedAt) {
		return a.CapturedAt.After(b.CapturedAt)
	}
	if !a.AnalyzedAt.Equal(b.AnalyzedAt) {
		return a.AnalyzedAt.After(b.AnalyzedAt)
	}
	return a.AnalysisID < b.AnalysisID
}
