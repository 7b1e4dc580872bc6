// Package model contains domain models passed between layers.
package model

// Record is one leaderboard row. Records are built once by the loader and
// only read afterwards.
type Record struct {
	Username string  // player name, column 0
	TR       float64 // Tetra Rating, column 1
	Rank     string  // raw rank token such as "a+" or "x", column 2
	Glicko   float64 // Glicko-2 rating, column 3
	RD       float64 // rating deviation, column 4
	APM      float64 // attack per minute, column 5
	PPS      float64 // pieces per second, column 6
	VS       float64 // versus score, column 7
}

// Value returns the numeric column selected by f. Unknown fields yield 0;
// callers validate with ParseField first.
func (r Record) Value(f Field) float64 {
	switch f {
	case FieldTR:
		return r.TR
	case FieldAPM:
		return r.APM
	case FieldPPS:
		return r.PPS
	case FieldGlicko:
		return r.Glicko
	case FieldRD:
		return r.RD
	case FieldVS:
		return r.VS
	}
	return 0
}
