// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) returns defaults; Load layers a YAML file and env vars on top.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/swingiq/internal/domain/benchmark"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogFile, when set, also writes logs to a rotated file.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets how many in-flight analysis ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`
	// HistoryLimit caps GET /athletes/{id}/analyses?limit.
	HistoryLimit int `koanf:"history_limit"`

	// SubmitRate is the sustained POST /analyses rate per second; 0 disables limiting.
	SubmitRate  float64 `koanf:"submit_rate"`
	SubmitBurst int     `koanf:"submit_burst"`

	// CORSOrigins is a comma-separated allow list; empty disables CORS.
	CORSOrigins string `koanf:"cors_origins"`

	// StoreKind selects memory or postgres.
	StoreKind   string `koanf:"store"`
	DatabaseURL string `koanf:"database_url"`

	// DefaultProfile is the ground-truth profile used for records naming none.
	DefaultProfile string `koanf:"default_profile"`

	// Benchmarks overrides benchmark ranges by metric key.
	Benchmarks map[string]benchmark.Override `koanf:"benchmarks"`
}

// New returns a Config holding defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		LogMaxSizeMB:    100,
		LogMaxBackups:   3,
		LogMaxAgeDays:   28,
		Addr:            ":9080",
		ShutdownTimeout: 10 * time.Second,
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		HistoryLimit:    100,
		SubmitRate:      50,
		SubmitBurst:     100,
		StoreKind:       StoreMemory,
	}
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Tables returns the default benchmark tables with Benchmarks applied.
func (c *Config) Tables() (benchmark.Tables, error) {
	t, err := benchmark.Default().Apply(c.Benchmarks)
	if err != nil {
		return benchmark.Tables{}, fmt.Errorf("%w: benchmarks: %w", ErrInvalidConfig, err)
	}
	return t, nil
}

// Validate checks field combinations Load cannot express through defaults.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	case c.SubmitRate < 0:
		return fmt.Errorf("%w: submit_rate must not be negative", ErrInvalidConfig)
	case c.SubmitRate > 0 && c.SubmitBurst <= 0:
		return fmt.Errorf("%w: submit_burst must be positive when submit_rate is set", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch c.StoreKind {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.StoreKind)
	}

	t, err := c.Tables()
	if err != nil {
		return err
	}
	if c.DefaultProfile != "" {
		if _, err := t.Profile(c.DefaultProfile); err != nil {
			return fmt.Errorf("%w: default_profile: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
