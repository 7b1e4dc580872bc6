// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers an optional YAML file and RANKPLOT_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the leaderboard CSV loaded at startup.
	DataPath string `koanf:"data_path"`

	// DefaultX and DefaultY are the initial axis selections.
	DefaultX string `koanf:"default_x"`
	DefaultY string `koanf:"default_y"`

	// SkipMalformedRows switches the loader from fail-fast to skip-and-warn.
	SkipMalformedRows bool `koanf:"skip_malformed_rows"`

	// ChartWidth and ChartHeight size rendered charts in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// MaxChartDimension caps the w/h query parameters of /chart.png.
	MaxChartDimension int `koanf:"max_chart_dimension"`

	// Metrics configures the Prometheus registry served at /healthz.
	MetricsEnabled         bool              `koanf:"metrics_enabled"`
	MetricsNamespace       string            `koanf:"metrics_namespace"`
	MetricsSubsystem       string            `koanf:"metrics_subsystem"`
	MetricsRefreshInterval time.Duration     `koanf:"metrics_refresh_interval"`
	MetricsBuckets         []float64         `koanf:"metrics_buckets"`
	MetricsLabels          map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DataPath:          "data/mini.csv",
		DefaultX:          "PPS",
		DefaultY:          "TR",
		SkipMalformedRows: false,
		ChartWidth:        1280,
		ChartHeight:       720,
		MaxChartDimension: 4096,

		MetricsEnabled:         true,
		MetricsNamespace:       "rankplot",
		MetricsSubsystem:       "view",
		MetricsRefreshInterval: 10 * time.Second,
	}
}
