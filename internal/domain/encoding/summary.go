package encoding

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/okian/rankplot/internal/domain/rank"
)

// Stats describes one axis of a bucket.
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// BucketSummary is the per-bucket distribution of a frame.
type BucketSummary struct {
	Bucket rank.Bucket
	Count  int
	X      Stats
	Y      Stats
}

// Summarize computes count, mean, sample standard deviation and bounds of
// both axes for every bucket, D through X+. Empty buckets report zeros.
func Summarize(r Result) []BucketSummary {
	out := make([]BucketSummary, 0, len(r.Series))
	for _, s := range r.Series {
		sum := BucketSummary{Bucket: s.Bucket, Count: len(s.Points)}
		if len(s.Points) > 0 {
			xs := make([]float64, len(s.Points))
			ys := make([]float64, len(s.Points))
			for i, p := range s.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			sum.X = describe(xs)
			sum.Y = describe(ys)
		}
		out = append(out, sum)
	}
	return out
}

func describe(xs []float64) Stats {
	lo, hi := stats.Bounds(xs)
	return Stats{
		Mean:   stats.Mean(xs),
		StdDev: stats.StdDev(xs),
		Min:    lo,
		Max:    hi,
	}
}
