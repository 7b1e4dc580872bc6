// Package rank maps raw rank tokens onto the nine display buckets and their
// fixed colors.
package rank

import (
	"fmt"
	"image/color"
)

// Bucket is a display category. Values are ordered by ascending skill.
type Bucket int

// Buckets in display order, lowest skill first.
const (
	BucketD Bucket = iota
	BucketC
	BucketB
	BucketA
	BucketS
	BucketSS
	BucketU
	BucketX
	BucketXPlus

	bucketCount
)

// MarkOpacity is the alpha applied to plotted marks; legend swatches are opaque.
const MarkOpacity = 0.6

// markAlpha is MarkOpacity on the 0-255 scale.
const markAlpha = 153

type style struct {
	name  string
	color color.RGBA
}

var styles = [bucketCount]style{
	BucketD:     {"D", color.RGBA{R: 144, G: 117, B: 145, A: 255}},
	BucketC:     {"C", color.RGBA{R: 115, G: 62, B: 143, A: 255}},
	BucketB:     {"B", color.RGBA{R: 79, G: 100, B: 201, A: 255}},
	BucketA:     {"A", color.RGBA{R: 70, G: 173, B: 81, A: 255}},
	BucketS:     {"S", color.RGBA{R: 224, G: 167, B: 27, A: 255}},
	BucketSS:    {"SS", color.RGBA{R: 219, G: 139, B: 31, A: 255}},
	BucketU:     {"U", color.RGBA{R: 255, G: 56, B: 19, A: 255}},
	BucketX:     {"X", color.RGBA{R: 255, G: 69, B: 255, A: 255}},
	BucketXPlus: {"X+", color.RGBA{R: 167, G: 99, B: 234, A: 255}},
}

// tokenTable is the many-to-one token mapping, in ascending skill order.
var tokenTable = []struct {
	token  string
	bucket Bucket
}{
	{"d", BucketD}, {"d+", BucketD},
	{"c-", BucketC}, {"c", BucketC}, {"c+", BucketC},
	{"b-", BucketB}, {"b", BucketB}, {"b+", BucketB},
	{"a-", BucketA}, {"a", BucketA}, {"a+", BucketA},
	{"s-", BucketS}, {"s", BucketS}, {"s+", BucketS},
	{"ss", BucketSS},
	{"u", BucketU},
	{"x", BucketX},
	{"x+", BucketXPlus},
}

var byToken = func() map[string]Bucket {
	m := make(map[string]Bucket, len(tokenTable))
	for _, t := range tokenTable {
		m[t.token] = t.bucket
	}
	return m
}()

// Lookup resolves a raw rank token. Matching is case-sensitive; ok is false
// for tokens outside the table.
func Lookup(token string) (b Bucket, ok bool) {
	b, ok = byToken[token]
	return b, ok
}

// Tokens returns the recognised tokens in ascending skill order.
func Tokens() []string {
	out := make([]string, len(tokenTable))
	for i, t := range tokenTable {
		out[i] = t.token
	}
	return out
}

// Buckets returns every bucket in plotting order, D through X+.
func Buckets() []Bucket {
	out := make([]Bucket, bucketCount)
	for i := range out {
		out[i] = Bucket(i)
	}
	return out
}

// LegendOrder returns every bucket highest skill first, X+ through D.
func LegendOrder() []Bucket {
	out := make([]Bucket, bucketCount)
	for i := range out {
		out[i] = Bucket(int(bucketCount) - 1 - i)
	}
	return out
}

// Count is the number of buckets.
func Count() int { return int(bucketCount) }

// Valid reports whether b is one of the nine buckets.
func (b Bucket) Valid() bool { return b >= BucketD && b < bucketCount }

// Name is the short label, e.g. "SS".
func (b Bucket) Name() string {
	if !b.Valid() {
		return "?"
	}
	return styles[b].name
}

// DisplayName is the legend label, e.g. "SS rank".
func (b Bucket) DisplayName() string {
	return b.Name() + " rank"
}

// String implements fmt.Stringer.
func (b Bucket) String() string { return b.DisplayName() }

// Color is the opaque legend color.
func (b Bucket) Color() color.RGBA {
	if !b.Valid() {
		return color.RGBA{A: 255}
	}
	return styles[b].color
}

// Hex is the legend color as #rrggbb.
func (b Bucket) Hex() string {
	c := b.Color()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarkColor is the color used for plotted points, with MarkOpacity applied.
func (b Bucket) MarkColor() color.NRGBA {
	c := b.Color()
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: markAlpha}
}

// MarshalText implements encoding.TextMarshaler using the short name.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.Name()), nil
}
