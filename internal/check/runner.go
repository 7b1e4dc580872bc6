package check

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rankplot/internal/adapters/repository"
	"github.com/okian/rankplot/pkg/logger"
)

// Run executes a complete check against cfg.BaseURL and returns the run
// statistics. Any disagreement is reported as ErrMismatch or ErrPage.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("check")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting rankplot check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("csv", cfg.CSVPath),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: service health
	if _, err := client.get(ctx, "/healthz"); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: local dataset
	records, err := repository.Load(ctx, cfg.CSVPath,
		repository.WithSkipMalformed(cfg.SkipMalformed),
		repository.WithLogger(log.Named("loader")),
	)
	if err != nil {
		return stats, err
	}
	stats.Records = len(records)

	// Step 3: the page
	if err := checkPage(ctx, client, stats); err != nil {
		return stats, err
	}

	// Step 4: every field pair
	results := checkPairs(ctx, cfg, client, records, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.PairsFailed > 0 {
		var first pairResult
		for _, r := range results {
			if !r.ok() {
				first = r
				break
			}
		}
		if first.Err != nil {
			return stats, fmt.Errorf("%w: %d of %d pairs failed, first %s: %w",
				ErrMismatch, stats.PairsFailed, stats.PairsTotal, first.Pair, first.Err)
		}
		return stats, fmt.Errorf("%w: %d of %d pairs failed, first %s: %v",
			ErrMismatch, stats.PairsFailed, stats.PairsTotal, first.Pair, first.Problems)
	}

	log.Info(ctx, "check completed successfully")
	return stats, nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Named("check").Info(ctx, "final statistics",
		logger.Int("records", stats.Records),
		logger.Int("pageMarks", stats.PageMarks),
		logger.Int("pairs", stats.PairsTotal),
		logger.Int("passed", stats.PairsPassed),
		logger.Int("failed", stats.PairsFailed),
		logger.String("duration", stats.Duration.String()),
	)
}
