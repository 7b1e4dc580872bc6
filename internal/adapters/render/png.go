package render

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/rank"
)

// Raster output is produced at this resolution.
const pngDPI = 96

// markRadius is the glyph radius of a plotted point.
var markRadius = vg.Points(3)

// PNG writes a raster scatter chart with a legend listing every bucket,
// highest rank first.
func PNG(w io.Writer, res encoding.Result, opts ...Option) error {
	s, err := newSettings(opts)
	if err != nil {
		return err
	}
	defer observe(FormatPNG, time.Now())

	p := plot.New()
	p.Title.Text = s.title + ": " + axisTitle(res)
	p.X.Label.Text = res.X.String()
	p.Y.Label.Text = res.Y.String()
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	scatters := make([]*plotter.Scatter, rank.Count())
	for _, b := range rank.Buckets() {
		pts := bucketPoints(res, b)
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRender, b, err)
		}
		sc.GlyphStyle.Color = b.MarkColor()
		sc.GlyphStyle.Radius = markRadius
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		scatters[b] = sc
		if len(xys) > 0 {
			p.Add(sc)
		}
	}

	for _, b := range rank.LegendOrder() {
		legend := *scatters[b]
		legend.GlyphStyle.Color = b.Color()
		p.Legend.Add(b.DisplayName(), &legend)
	}

	wt, err := p.WriterTo(pixels(s.width), pixels(s.height), FormatPNG)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / pngDPI
}

// bucketPoints returns the points of bucket b, tolerating a Result whose
// Series were not filled by Encode.
func bucketPoints(res encoding.Result, b rank.Bucket) []encoding.Point {
	for _, s := range res.Series {
		if s.Bucket == b {
			return s.Points
		}
	}
	return nil
}
