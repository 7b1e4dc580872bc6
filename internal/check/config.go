// Package check compares a running rankplot server against a local
// encoding of the same CSV.
package check

import (
	"time"

	"github.com/okian/rankplot/internal/domain/model"
)

// Config holds configuration for a check run.
type Config struct {
	BaseURL       string        // Base URL of the service
	CSVPath       string        // CSV the server was started with
	SkipMalformed bool          // Load the CSV the way a skip-mode server would
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	Verbose       bool          // Log every pair, not only failures
}

// Pair is one ordered (x, y) field selection.
type Pair struct {
	X, Y model.Field
}

func (p Pair) String() string { return p.X.String() + "/" + p.Y.String() }

// Pairs lists every ordered pair of fields, including x == y.
func Pairs() []Pair {
	fields := model.Fields()
	out := make([]Pair, 0, len(fields)*len(fields))
	for _, x := range fields {
		for _, y := range fields {
			out = append(out, Pair{X: x, Y: y})
		}
	}
	return out
}

// Stats holds run statistics.
type Stats struct {
	Records     int
	PairsTotal  int
	PairsPassed int
	PairsFailed int
	PageMarks   int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
