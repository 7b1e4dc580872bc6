package fetch

import (
	"context"
	"time"

	"github.com/okian/rankplot/pkg/logger"
)

// Leaderboard pages through the whole leaderboard, highest TR first. Each
// request after the first continues below the TR of the previous page's
// last entry, and requests are spaced by cfg.Delay. It stops on an empty
// page, after cfg.MaxPages pages, or when ctx ends.
func Leaderboard(ctx context.Context, cfg *Config) ([]Entry, *Stats, error) {
	c := cfg.withDefaults()
	log := logger.Named("fetch")
	cl := newClient(c)
	stats := &Stats{StartTime: time.Now()}

	var (
		all   []Entry
		after *float64
	)
	for c.MaxPages == 0 || stats.Pages < c.MaxPages {
		if stats.Pages > 0 {
			if err := wait(ctx, c.Delay); err != nil {
				return nil, nil, err
			}
		}
		entries, err := cl.page(ctx, after)
		if err != nil {
			return nil, nil, err
		}
		stats.Pages++
		if len(entries) == 0 {
			break
		}
		all = append(all, entries...)
		tr := entries[len(entries)-1].League.TR
		after = &tr
		log.Info(ctx, "page fetched",
			logger.Int("page", stats.Pages),
			logger.Int("entries", len(all)),
			logger.Any("after", tr),
		)
	}
	if len(all) == 0 {
		return nil, nil, ErrEmpty
	}

	stats.Entries = len(all)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	return all, stats, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
