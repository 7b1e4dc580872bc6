package check

import (
	"fmt"

	"github.com/okian/rankplot/internal/domain/types"
)

// maxProblems caps the mismatches reported for one pair.
const maxProblems = 10

// compare lists the differences between a locally computed encoding and
// the server's. The two agree when the axes, the bucket order, the point
// counts and every point's projection match.
func compare(want, got types.Encoding) []string {
	var problems []string
	add := func(format string, args ...any) bool {
		problems = append(problems, fmt.Sprintf(format, args...))
		return len(problems) < maxProblems
	}

	if want.X != got.X || want.Y != got.Y {
		add("axes: want %s/%s, got %s/%s", want.X, want.Y, got.X, got.Y)
	}
	if want.Points != got.Points {
		add("points: want %d, got %d", want.Points, got.Points)
	}
	if want.Dropped != got.Dropped {
		add("dropped: want %d, got %d", want.Dropped, got.Dropped)
	}
	if len(want.Series) != len(got.Series) {
		add("series: want %d, got %d", len(want.Series), len(got.Series))
		return problems
	}

	for i, ws := range want.Series {
		gs := got.Series[i]
		if ws.Bucket != gs.Bucket {
			if !add("series %d: want bucket %s, got %s", i, ws.Bucket, gs.Bucket) {
				return problems
			}
			continue
		}
		if ws.Color != gs.Color {
			if !add("bucket %s: want color %s, got %s", ws.Bucket, ws.Color, gs.Color) {
				return problems
			}
		}
		if len(ws.Points) != len(gs.Points) {
			if !add("bucket %s: want %d points, got %d", ws.Bucket, len(ws.Points), len(gs.Points)) {
				return problems
			}
			continue
		}
		for j, wp := range ws.Points {
			gp := gs.Points[j]
			if wp.Index != gp.Index || wp.X != gp.X || wp.Y != gp.Y {
				if !add("bucket %s point %d: want #%d (%g, %g), got #%d (%g, %g)",
					ws.Bucket, j, wp.Index, wp.X, wp.Y, gp.Index, gp.X, gp.Y) {
					return problems
				}
			}
		}
	}
	return problems
}
