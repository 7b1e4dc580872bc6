// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rankplot/internal/adapters/render"
	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/pkg/logger"
)

// Default chart configuration constants.
const (
	defaultChartWidth   = 1280
	defaultChartHeight  = 720
	defaultMaxDimension = 4096
)

// ViewController is the part of the view controller the handlers use.
type ViewController interface {
	Frame() service.Frame
	Selection() (x, y model.Field)
	SetField(ctx context.Context, axis, field string) (service.Frame, error)
	Encode(ctx context.Context, x, y model.Field) (encoding.Result, error)
}

// Server wires HTTP routes for the view and its JSON API.
type Server struct {
	view ViewController

	healthHandler *HealthHandler
	statsHandler  *StatsHandler

	chartWidth   int
	chartHeight  int
	maxDimension int
	chartCache   *ChartCache

	log logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithChartSize sets the default chart size in pixels.
func WithChartSize(width, height int) Option {
	return func(s *Server) {
		if width > 0 && height > 0 {
			s.chartWidth = width
			s.chartHeight = height
		}
	}
}

// WithMaxChartDimension caps the w and h query parameters of chart routes.
func WithMaxChartDimension(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxDimension = n
		}
	}
}

// WithChartCache serves GET /chart.svg from cache when it holds the
// requested chart.
func WithChartCache(c *ChartCache) Option {
	return func(s *Server) {
		s.chartCache = c
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(view ViewController, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		view:          view,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		chartWidth:    defaultChartWidth,
		chartHeight:   defaultChartHeight,
		maxDimension:  defaultMaxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("api")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.handlePage, "page"))
	mux.HandleFunc("POST /view", MetricsMiddleware(s.handleSelect, "select"))

	mux.HandleFunc("GET /api/view", MetricsMiddleware(s.handleGetView, "view"))
	mux.HandleFunc("PUT /api/view/{axis}", MetricsMiddleware(s.handlePutView, "view"))
	mux.HandleFunc("GET /api/encode", MetricsMiddleware(s.handleEncode, "encode"))
	mux.HandleFunc("GET /api/fields", MetricsMiddleware(s.handleFields, "fields"))
	mux.HandleFunc("GET /api/fields/{field}", MetricsMiddleware(s.handleField, "fields"))
	mux.HandleFunc("GET /api/legend", MetricsMiddleware(s.handleLegend, "legend"))
	mux.HandleFunc("GET /api/summary", MetricsMiddleware(s.handleSummary, "summary"))

	mux.HandleFunc("GET /chart.svg", MetricsMiddleware(s.handleChart(render.FormatSVG), "chart_svg"))
	mux.HandleFunc("GET /chart.png", MetricsMiddleware(s.handleChart(render.FormatPNG), "chart_png"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON marshals v before touching the response so an encoding failure
// still produces a well-formed 500 envelope.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an error to its HTTP status and envelope code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidField):
		return http.StatusBadRequest, "invalid_field"
	case errors.Is(err, service.ErrInvalidAxis):
		return http.StatusBadRequest, "invalid_axis"
	case errors.Is(err, render.ErrInvalidSize):
		return http.StatusBadRequest, "invalid_size"
	case errors.Is(err, render.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with the status classify picks and logs server errors.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		s.log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", w.Header().Get(RequestIDHeader)),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// fields resolves the x and y query parameters, falling back to the
// current selection for any that are absent or empty.
func (s *Server) fields(r *http.Request) (x, y model.Field, err error) {
	x, y = s.view.Selection()
	q := r.URL.Query()
	if v := q.Get("x"); v != "" {
		if x, err = model.ParseField(v); err != nil {
			return x, y, err
		}
	}
	if v := q.Get("y"); v != "" {
		if y, err = model.ParseField(v); err != nil {
			return x, y, err
		}
	}
	return x, y, nil
}
