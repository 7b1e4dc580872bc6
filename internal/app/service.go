// Package service wires the dataset, the encoding engine and the view
// controller behind the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rankplot/internal/adapters/repository"
	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/pkg/logger"
)

// Default service configuration constants.
const (
	defaultDataPath = "data/mini.csv"
)

// Service loads the dataset once and owns the view controller.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	controller *Controller

	// Configuration
	dataPath      string
	skipMalformed bool
	defaultX      model.Field
	defaultY      model.Field

	// State
	started   bool
	startedAt time.Time
	loadTime  time.Duration

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath sets the CSV file loaded on Start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithSkipMalformed makes the loader skip bad rows instead of failing.
func WithSkipMalformed(skip bool) Option {
	return func(s *Service) {
		s.skipMalformed = skip
	}
}

// WithDefaultFields sets the initial axis selection.
func WithDefaultFields(x, y model.Field) Option {
	return func(s *Service) {
		if x.Valid() {
			s.defaultX = x
		}
		if y.Valid() {
			s.defaultY = y
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore bypasses loading and serves records from store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath: defaultDataPath,
		defaultX: model.FieldPPS,
		defaultY: model.FieldTR,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset (unless a store was supplied) and computes the
// initial frame. It blocks until both are done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rankplot service...", logger.String("data_path", s.dataPath))

	begin := time.Now()
	if s.store == nil {
		records, err := repository.Load(ctx, s.dataPath,
			repository.WithSkipMalformed(s.skipMalformed),
			repository.WithLogger(s.logger.Named("loader")),
		)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.store = repository.NewMemoryStore(records)
	}
	s.loadTime = time.Since(begin)

	ctrl, err := NewController(ctx, s.store,
		WithControllerDefaultFields(s.defaultX, s.defaultY),
		WithControllerLogger(s.logger.Named("controller")),
	)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.controller = ctrl

	s.started = true
	s.startedAt = time.Now()
	frame := ctrl.Frame()
	s.logger.Info(ctx, "rankplot service started",
		logger.Int("records", s.store.Count(ctx)),
		logger.Int("points", len(frame.Result.Points)),
		logger.Int("dropped", frame.Result.Dropped),
		logger.String("x", frame.X.String()),
		logger.String("y", frame.Y.String()),
		logger.Duration("load_time", s.loadTime),
	)
	return nil
}

// Stop marks the service stopped. The dataset stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "rankplot service stopped")
}

// Controller returns the view controller, or ErrNotStarted.
func (s *Service) Controller() (*Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.controller == nil {
		return nil, ErrNotStarted
	}
	return s.controller, nil
}

// Records returns the loaded dataset.
func (s *Service) Records(ctx context.Context) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store.All(ctx), nil
}

// Summary computes per-bucket statistics for (x, y).
func (s *Service) Summary(ctx context.Context, x, y model.Field) ([]encoding.BucketSummary, error) {
	ctrl, err := s.Controller()
	if err != nil {
		return nil, err
	}
	res, err := ctrl.Encode(ctx, x, y)
	if err != nil {
		return nil, err
	}
	return encoding.Summarize(res), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"dataPath": s.dataPath,
	}
	if s.store != nil {
		stats["records"] = s.store.Count(context.Background())
		stats["loadTimeMs"] = s.loadTime.Milliseconds()
	}
	if s.controller != nil {
		f := s.controller.Frame()
		stats["x"] = f.X.String()
		stats["y"] = f.Y.String()
		stats["revision"] = f.Revision
		stats["frameId"] = f.ID
		stats["points"] = len(f.Result.Points)
		stats["dropped"] = f.Result.Dropped
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
