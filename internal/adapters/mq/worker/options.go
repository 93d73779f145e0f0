// Package worker analyzes queued swing records and persists the results.
package worker

import (
	"context"

	"github.com/okian/swingiq/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOutcomeHook registers a callback invoked after every record.
func WithOutcomeHook(fn func(Outcome)) Option {
	return func(w *InMemoryWorker) {
		if fn != nil {
			w.onOutcome = fn
		}
	}
}

// WithDoneHook registers a callback invoked with the analysis id once a
// record has finished, whatever its outcome.
func WithDoneHook(fn func(ctx context.Context, analysisID string)) Option {
	return func(w *InMemoryWorker) {
		if fn != nil {
			w.onDone = fn
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger handed to the pool and its workers.
func WithPoolLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPoolDoneHook hands fn to every worker as its done hook.
func WithPoolDoneHook(fn func(ctx context.Context, analysisID string)) PoolOption {
	return func(p *Pool) {
		if fn != nil {
			p.onDone = fn
		}
	}
}
