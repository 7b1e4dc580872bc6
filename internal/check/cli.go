package check

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/rankplot/pkg/logger"
)

// SetupLogging initializes the global logger for the check tool. Output
// goes to stdout and, when logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Usage is the help text of rankplot-check.
const Usage = `rankplot-check
==============

Compares a running rankplot server against a local encoding of the same
CSV: every ordered field pair is fetched from /api/encode and checked for
point count, bucket order and projection, and the HTML page is checked for
one chart mark per point and a legend from X+ down to D.

Usage:
  rankplot-check [options]

Options:
`
