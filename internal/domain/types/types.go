// Package types contains the JSON shapes shared by the HTTP API and the
// command-line tools.
package types

import (
	"github.com/okian/rankplot/internal/domain/encoding"
)

// Point is one plotted player.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Bucket   string  `json:"bucket"`
	Username string  `json:"username"`
	Index    int     `json:"index"`
	Tooltip  string  `json:"tooltip"`
}

// Series groups the points of one rank bucket.
type Series struct {
	Bucket string  `json:"bucket"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Encoding is an encoded frame: nine series, D through X+.
type Encoding struct {
	X             string         `json:"x"`
	Y             string         `json:"y"`
	Series        []Series       `json:"series"`
	Points        int            `json:"points"`
	Dropped       int            `json:"dropped"`
	UnknownTokens map[string]int `json:"unknown_tokens,omitempty"`
}

// Frame is the controller's current view.
type Frame struct {
	ID           string   `json:"id"`
	Revision     uint64   `json:"revision"`
	XDescription string   `json:"x_description"`
	YDescription string   `json:"y_description"`
	Encoding     Encoding `json:"encoding"`
}

// Field is a selectable field and its description.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// AxisStats is the distribution of one axis within a bucket.
type AxisStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// BucketSummary is the distribution of one bucket.
type BucketSummary struct {
	Bucket string    `json:"bucket"`
	Count  int       `json:"count"`
	X      AxisStats `json:"x"`
	Y      AxisStats `json:"y"`
}

// Summary is the per-bucket distribution of a field pair.
type Summary struct {
	X       string          `json:"x"`
	Y       string          `json:"y"`
	Buckets []BucketSummary `json:"buckets"`
}

// FromResult converts an encoding result. Series always carry a non-nil
// Points slice so that empty buckets encode as [].
func FromResult(res encoding.Result) Encoding {
	out := Encoding{
		X:       res.X.String(),
		Y:       res.Y.String(),
		Series:  make([]Series, len(res.Series)),
		Points:  len(res.Points),
		Dropped: res.Dropped,
	}
	if len(res.UnknownTokens) > 0 {
		out.UnknownTokens = res.UnknownTokens
	}
	for i, s := range res.Series {
		pts := make([]Point, len(s.Points))
		for j, p := range s.Points {
			pts[j] = Point{
				X:        p.X,
				Y:        p.Y,
				Bucket:   p.Bucket.Name(),
				Username: p.Username,
				Index:    p.Index,
				Tooltip:  p.Tooltip,
			}
		}
		out.Series[i] = Series{
			Bucket: s.Bucket.Name(),
			Name:   s.Bucket.DisplayName(),
			Color:  s.Bucket.Hex(),
			Points: pts,
		}
	}
	return out
}

// FromSummary converts per-bucket statistics.
func FromSummary(res encoding.Result, sums []encoding.BucketSummary) Summary {
	out := Summary{
		X:       res.X.String(),
		Y:       res.Y.String(),
		Buckets: make([]BucketSummary, len(sums)),
	}
	for i, s := range sums {
		out.Buckets[i] = BucketSummary{
			Bucket: s.Bucket.Name(),
			Count:  s.Count,
			X:      AxisStats(s.X),
			Y:      AxisStats(s.Y),
		}
	}
	return out
}
