package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/rankplot/internal/adapters/http/api"
	"github.com/okian/rankplot/internal/adapters/http/site"
	"github.com/okian/rankplot/internal/adapters/http/swagger"
	app "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/config"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/pkg/logger"
	"github.com/okian/rankplot/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Metrics must be configured before anything records or serves them.
	configureMetrics(cfg)

	svc, err := newService(cfg)
	if err != nil {
		loggerInstance.Fatal(ctx, "invalid default fields", logger.Error(err))
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	mux, err := newMux(ctx, cfg, svc)
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to build routes", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newService builds the service from configuration. It does not start it.
func newService(cfg *config.Config) (*app.Service, error) {
	x, err := model.ParseField(cfg.DefaultX)
	if err != nil {
		return nil, err
	}
	y, err := model.ParseField(cfg.DefaultY)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(logger.Get()),
		app.WithDataPath(cfg.DataPath),
		app.WithSkipMalformed(cfg.SkipMalformedRows),
		app.WithDefaultFields(x, y),
	), nil
}

// newMux registers every route of a started service.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) (*http.ServeMux, error) {
	ctrl, err := svc.Controller()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// API reference under /api-docs
	swagger.Register(ctx, mux)

	// Stylesheet and script of the page
	site.Register(ctx, mux)

	// The default-size SVG of the current selection is redrawn on every
	// change and served from memory.
	cache := api.NewChartCache(cfg.ChartWidth, cfg.ChartHeight)
	if err := ctrl.AddRenderer(ctx, cache); err != nil {
		return nil, err
	}

	// Page, JSON API, charts and operational routes
	api.NewServer(ctrl, svc,
		api.WithChartSize(cfg.ChartWidth, cfg.ChartHeight),
		api.WithChartCache(cache),
		api.WithMaxChartDimension(cfg.MaxChartDimension),
		api.WithLogger(logger.Named("api")),
	).Register(ctx, mux)

	return mux, nil
}

// configureMetrics rebuilds the metrics registry from configuration.
func configureMetrics(cfg *config.Config) {
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithRefreshInterval(cfg.MetricsRefreshInterval),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	)
}

// startSystemMetricsUpdater updates system metrics every interval until ctx ends.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	if !metrics.Enabled() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
