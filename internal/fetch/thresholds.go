package fetch

import "math"

// Rank cutoffs as a fraction of the leaderboard, best rank first. "top1" is
// the first place.
var rankFractions = []struct {
	Rank     string
	Fraction float64
}{
	{"top1", 0},
	{"x+", 0.002},
	{"x", 0.01},
	{"u", 0.05},
	{"ss", 0.11},
	{"s+", 0.17},
	{"s", 0.23},
	{"s-", 0.3},
	{"a+", 0.38},
	{"a", 0.46},
	{"a-", 0.54},
	{"b+", 0.62},
	{"b", 0.7},
	{"b-", 0.78},
	{"c+", 0.84},
	{"c", 0.9},
	{"c-", 0.95},
	{"d+", 0.975},
	{"d", 1},
}

// maxStableRD is the largest rating deviation whose Glicko is trusted as a
// cutoff.
const maxStableRD = 65

// Threshold is the lowest TR and Glicko that still reaches Rank.
type Threshold struct {
	Rank     string  `json:"rank"`
	Position int     `json:"position"`
	TR       float64 `json:"tr"`
	Glicko   float64 `json:"glicko"`
	GXE      float64 `json:"gxe"`
}

// Thresholds derives rank cutoffs from a leaderboard sorted by TR,
// highest first. TR comes from the entry at the cutoff position; Glicko and
// GXE come from the nearest entry at or above it whose RD is at most 65.
func Thresholds(entries []Entry) []Threshold {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Threshold, 0, len(rankFractions))
	for _, rf := range rankFractions {
		pos := 0
		if rf.Fraction > 0 {
			pos = max(int(math.Trunc(float64(len(entries))*rf.Fraction))-1, 0)
		}
		stable := pos
		if rf.Fraction > 0 {
			for stable > 0 && entries[stable].League.RD > maxStableRD {
				stable--
			}
		}
		out = append(out, Threshold{
			Rank:     rf.Rank,
			Position: pos,
			TR:       entries[pos].League.TR,
			Glicko:   entries[stable].League.Glicko,
			GXE:      entries[stable].League.GXE,
		})
	}
	return out
}
