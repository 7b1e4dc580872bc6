package check

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/types"
	"github.com/okian/rankplot/pkg/logger"
)

// workerChannelMultiplier sizes the pair channel relative to the workers.
const workerChannelMultiplier = 2

// pairResult is the outcome for one pair.
type pairResult struct {
	Pair     Pair
	Problems []string
	Err      error
}

func (r pairResult) ok() bool { return r.Err == nil && len(r.Problems) == 0 }

// checkPairs fetches /api/encode for every pair with a pool of workers and
// compares each answer to a local encoding of records.
func checkPairs(ctx context.Context, cfg *Config, client *httpClient, records []model.Record, stats *Stats) []pairResult {
	log := logger.Named("check")
	pairs := Pairs()
	results := make([]pairResult, len(pairs))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	log.Info(ctx, "checking field pairs", logger.Int("pairs", len(pairs)), logger.Int("workers", workers))

	var passed int64
	jobs := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = pairResult{Pair: pairs[idx], Err: ctx.Err()}
					continue
				}
				res := checkPair(ctx, client, records, pairs[idx])
				results[idx] = res
				if res.ok() {
					atomic.AddInt64(&passed, 1)
					if cfg.Verbose {
						log.Debug(ctx, "pair ok", logger.String("pair", res.Pair.String()))
					}
					continue
				}
				fields := []logger.Field{logger.String("pair", res.Pair.String()), logger.Any("problems", res.Problems)}
				if res.Err != nil {
					fields = append(fields, logger.Error(res.Err))
				}
				log.Warn(ctx, "pair mismatch", fields...)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range pairs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.PairsTotal = len(pairs)
	stats.PairsPassed = int(atomic.LoadInt64(&passed))
	stats.PairsFailed = len(pairs) - stats.PairsPassed
	return results
}

func checkPair(ctx context.Context, client *httpClient, records []model.Record, p Pair) pairResult {
	res := pairResult{Pair: p}

	local, err := encoding.Encode(records, p.X, p.Y)
	if err != nil {
		res.Err = err
		return res
	}

	q := url.Values{"x": {p.X.String()}, "y": {p.Y.String()}}
	var remote types.Encoding
	if err := client.getJSON(ctx, "/api/encode?"+q.Encode(), &remote); err != nil {
		res.Err = err
		return res
	}

	res.Problems = compare(types.FromResult(local), remote)
	return res
}
