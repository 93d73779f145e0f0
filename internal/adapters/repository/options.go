package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithHistoryLimit caps how many analyses ListByAthlete returns.
func WithHistoryLimit(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*postgresOptions)

type postgresOptions struct {
	maxConns    int32
	minConns    int32
	maxConnLife time.Duration
	maxLimit    int
}

// WithPoolSize bounds the connection pool.
func WithPoolSize(minConns, maxConns int32) PostgresOption {
	return func(o *postgresOptions) {
		if minConns >= 0 {
			o.minConns = minConns
		}
		if maxConns > 0 {
			o.maxConns = maxConns
		}
	}
}

// WithMaxConnLifetime sets how long a pooled connection may live.
func WithMaxConnLifetime(d time.Duration) PostgresOption {
	return func(o *postgresOptions) {
		if d > 0 {
			o.maxConnLife = d
		}
	}
}

// WithPostgresHistoryLimit caps how many analyses ListByAthlete returns.
func WithPostgresHistoryLimit(n int) PostgresOption {
	return func(o *postgresOptions) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}
