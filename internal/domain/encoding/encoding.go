// Package encoding projects player records onto a pair of numeric fields and
// groups the resulting points by rank bucket.
package encoding

import (
	"strconv"
	"strings"

	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/rank"
)

// Point is one plotted record.
type Point struct {
	X        float64
	Y        float64
	Bucket   rank.Bucket
	Tooltip  string
	Index    int // position of the record in the loaded dataset
	Username string
}

// Series holds the points of one bucket in input order.
type Series struct {
	Bucket rank.Bucket
	Points []Point
}

// Result is a complete frame for one (x, y) pair.
type Result struct {
	X model.Field
	Y model.Field

	// Series has one entry per bucket, D through X+, possibly empty.
	Series []Series
	// Points is Series flattened in the same order.
	Points []Point

	// Dropped counts records whose rank token is not in the table.
	Dropped       int
	UnknownTokens map[string]int
}

// Encode builds the frame for records projected onto (x, y). records is
// only read.
func Encode(records []model.Record, x, y model.Field) (Result, error) {
	if !x.Valid() {
		return Result{}, &model.FieldError{Value: x.String()}
	}
	if !y.Valid() {
		return Result{}, &model.FieldError{Value: y.String()}
	}

	res := Result{
		X:             x,
		Y:             y,
		Series:        make([]Series, rank.Count()),
		UnknownTokens: make(map[string]int),
	}
	for _, b := range rank.Buckets() {
		res.Series[b].Bucket = b
	}

	for i, r := range records {
		b, ok := rank.Lookup(r.Rank)
		if !ok {
			res.Dropped++
			res.UnknownTokens[r.Rank]++
			continue
		}
		res.Series[b].Points = append(res.Series[b].Points, Point{
			X:        r.Value(x),
			Y:        r.Value(y),
			Bucket:   b,
			Tooltip:  Tooltip(r),
			Index:    i,
			Username: r.Username,
		})
	}

	res.Points = make([]Point, 0, len(records)-res.Dropped)
	for _, s := range res.Series {
		res.Points = append(res.Points, s.Points...)
	}
	return res, nil
}

// EncodeNames is Encode with field names parsed case-insensitively.
func EncodeNames(records []model.Record, x, y string) (Result, error) {
	xf, err := model.ParseField(x)
	if err != nil {
		return Result{}, err
	}
	yf, err := model.ParseField(y)
	if err != nil {
		return Result{}, err
	}
	return Encode(records, xf, yf)
}

// Tooltip renders the hover text for a record: the username, the raw rank
// token and all six numeric fields, one per line.
func Tooltip(r model.Record) string {
	var b strings.Builder
	b.WriteString("Username: ")
	b.WriteString(r.Username)
	b.WriteString("\nRank: ")
	b.WriteString(r.Rank)
	for _, f := range []model.Field{model.FieldTR, model.FieldGlicko, model.FieldRD, model.FieldAPM, model.FieldPPS, model.FieldVS} {
		b.WriteByte('\n')
		b.WriteString(f.String())
		b.WriteString(": ")
		b.WriteString(FormatValue(r.Value(f)))
	}
	return b.String()
}

// FormatValue formats a field value with the shortest exact representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PerBucket returns point counts keyed by bucket display name. Empty
// buckets are included.
func (r Result) PerBucket() map[string]int {
	out := make(map[string]int, len(r.Series))
	for _, s := range r.Series {
		out[s.Bucket.DisplayName()] = len(s.Points)
	}
	return out
}
