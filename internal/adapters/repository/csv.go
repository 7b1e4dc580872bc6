package repository

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/pkg/logger"
	"github.com/okian/rankplot/pkg/metrics"
)

// columns names the eight positional columns, in file order.
var columns = [...]string{"username", "tr", "rank", "glicko", "rd", "apm", "pps", "vs"}

type loader struct {
	path          string
	skipMalformed bool
	progressEvery int
	log           logger.Logger
}

// Load reads the leaderboard file at path. See Parse for the row format.
func Load(ctx context.Context, path string, opts ...Option) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		metrics.RecordLoadError()
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(ctx, f, append([]Option{WithPath(path)}, opts...)...)
}

// Parse reads a header line followed by one comma-separated row per player:
// username, tr, rank, glicko, rd, apm, pps, vs. Fields are split on every
// comma with no quoting. Blank lines are ignored and columns past the eighth
// are not read.
//
// By default the first malformed row aborts the load and no records are
// returned.
func Parse(ctx context.Context, r io.Reader, opts ...Option) ([]model.Record, error) {
	l := &loader{progressEvery: defaultProgressEvery}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Named("loader")
	}

	start := time.Now()
	records, skipped, rows, err := l.parse(ctx, r)
	if err != nil {
		metrics.RecordLoadError()
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordLoad(len(records), skipped, float64(elapsed.Microseconds())/1000)
	l.log.Info(ctx, "dataset loaded",
		logger.String("path", l.path),
		logger.Int("records", len(records)),
		logger.Int("rows", rows),
		logger.Int("skipped", skipped),
		logger.Duration("elapsed", elapsed),
	)
	return records, nil
}

func (l *loader) parse(ctx context.Context, r io.Reader) (records []model.Record, skipped, rows int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue // header
		}
		if err := ctx.Err(); err != nil {
			return nil, skipped, rows, fmt.Errorf("%w: %w", ErrLoad, err)
		}

		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rows++

		rec, rowErr := parseRow(text)
		if rowErr != nil {
			rowErr.Path, rowErr.Line = l.path, line
			if !l.skipMalformed {
				return nil, skipped, rows, rowErr
			}
			skipped++
			l.log.Warn(ctx, "skipping malformed row", logger.Error(rowErr))
			continue
		}
		records = append(records, rec)

		if rows%l.progressEvery == 0 {
			l.log.Debug(ctx, "loading players",
				logger.Int("loaded", len(records)),
				logger.Int("rows", rows),
			)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, rows, &LoadError{Path: l.path, Line: line + 1, Err: err}
	}
	return records, skipped, rows, nil
}

func parseRow(text string) (model.Record, *LoadError) {
	parts := strings.Split(text, ",")
	if len(parts) < len(columns) {
		return model.Record{}, &LoadError{Err: fmt.Errorf("%w: got %d", ErrShortRow, len(parts))}
	}

	var nums [len(columns)]float64
	for i, col := range columns {
		if col == "username" || col == "rank" {
			continue
		}
		v, err := parseNumber(parts[i])
		if err != nil {
			return model.Record{}, &LoadError{Column: col, Err: err}
		}
		nums[i] = v
	}

	return model.Record{
		Username: parts[0],
		TR:       nums[1],
		Rank:     parts[2],
		Glicko:   nums[3],
		RD:       nums[4],
		APM:      nums[5],
		PPS:      nums[6],
		VS:       nums[7],
	}, nil
}

// parseNumber accepts plain decimal notation with an optional sign, fraction
// and exponent. ParseFloat alone would also admit NaN, Inf, hex floats and
// underscores.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isDecimal(s) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNumber, s)
	}
	return v, nil
}

func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for ; i < len(s) && isDigit(s[i]); i++ {
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
