package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/okian/swingiq/internal/adapters/http/api"
	"github.com/okian/swingiq/internal/adapters/http/swagger"
	"github.com/okian/swingiq/internal/adapters/repository"
	service "github.com/okian/swingiq/internal/app"
	"github.com/okian/swingiq/internal/config"
	"github.com/okian/swingiq/internal/domain/analysis"
	"github.com/okian/swingiq/pkg/logger"
	"github.com/okian/swingiq/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("swingiq: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load(".env")

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(
		logger.WithFormat(cfg.LogFormat),
		logger.WithFile(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays),
	); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("store", cfg.StoreKind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stop service: %w", err))
	}
	log.Info(ctx, "server stopped")
	return errors.Join(errs...)
}

// buildService wires the analyzer and store selected by cfg into a Service.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	analyzer := analysis.New(
		analysis.WithTables(tables),
		analysis.WithDefaultProfile(cfg.DefaultProfile),
	)

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithAnalyzer(analyzer),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithHistoryLimit(cfg.HistoryLimit),
	}

	if cfg.StoreKind == config.StorePostgres {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL,
			repository.WithPostgresHistoryLimit(cfg.HistoryLimit))
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		opts = append(opts, service.WithStore(store))
	}
	return service.New(opts...), nil
}

// newHandler registers every route and wraps the mux with CORS when
// origins are configured.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithSubmitRate(cfg.SubmitRate, cfg.SubmitBurst)).Register(ctx, mux)

	origins := cfg.Origins()
	if len(origins) == 0 {
		return mux
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Location", "Retry-After"},
	}).Handler(mux)
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if n, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(n)
	}
	if n, ok := stats["storedAnalyses"].(int); ok {
		metrics.UpdateRepositoryRecords(n)
	}
	if n, ok := stats["workerCount"].(int); ok && stats["started"] == true {
		metrics.UpdateWorkerActiveCount(n)
	}
}
