package repository

import "github.com/okian/rankplot/pkg/logger"

// Default loader configuration constants.
const (
	defaultProgressEvery = 1000
	maxLineBytes         = 1 << 20
)

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithSkipMalformed switches from aborting on the first bad row to skipping
// it with a warning.
func WithSkipMalformed(skip bool) Option {
	return func(l *loader) {
		l.skipMalformed = skip
	}
}

// WithProgressEvery sets how many rows pass between debug progress logs.
func WithProgressEvery(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.progressEvery = n
		}
	}
}

// WithLogger overrides the logger; the global "loader" logger is used by default.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithPath records the source path for error messages and logs. Load sets it.
func WithPath(path string) Option {
	return func(l *loader) {
		l.path = path
	}
}
