package render

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	svg "github.com/ajstarks/svgo"

	"github.com/okian/rankplot/internal/domain/encoding"
)

// Column names of the table handed to gg.
const (
	colX       = "x"
	colY       = "y"
	colColor   = "color"
	colTooltip = "tooltip"
)

// SVG writes an SVG scatter chart with one translucent mark per point and
// hover tooltips.
func SVG(w io.Writer, res encoding.Result, opts ...Option) (err error) {
	s, err := newSettings(opts)
	if err != nil {
		return err
	}
	defer observe(FormatSVG, time.Now())

	if len(res.Points) == 0 {
		return emptySVG(w, s, res)
	}

	xs := make([]float64, len(res.Points))
	ys := make([]float64, len(res.Points))
	colors := make([]color.Color, len(res.Points))
	tips := make([]string, len(res.Points))
	for i, p := range res.Points {
		xs[i], ys[i] = p.X, p.Y
		colors[i] = p.Bucket.MarkColor()
		tips[i] = p.Tooltip
	}

	tab := new(table.Builder).
		Add(colX, xs).
		Add(colY, ys).
		Add(colColor, colors).
		Add(colTooltip, tips).
		Done()

	p := gg.NewPlot(tab)
	p.Add(gg.Title(s.title + ": " + axisTitle(res)))
	p.Add(gg.AxisLabel("x", res.X.String()), gg.AxisLabel("y", res.Y.String()))
	p.Add(gg.LayerPoints{X: colX, Y: colY, Color: colColor})
	p.Add(gg.LayerTooltips{X: colX, Y: colY, Label: colTooltip})

	// gg reports some data problems by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()
	if err := p.WriteSVG(w, s.width, s.height); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// emptySVG draws the frame border and a notice when no point survived
// encoding.
func emptySVG(w io.Writer, s settings, res encoding.Result) error {
	canvas := svg.New(w)
	canvas.Start(s.width, s.height)
	canvas.Title(s.title + ": " + axisTitle(res))
	canvas.Rect(0, 0, s.width, s.height, "fill:white;stroke:#888")
	canvas.Text(s.width/2, s.height/2, "no players to plot", "text-anchor:middle;font-family:sans-serif;fill:#444")
	canvas.End()
	return nil
}
