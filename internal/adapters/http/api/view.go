package api

import (
	"math"
	"net/http"
	"strconv"

	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/rank"
	"github.com/okian/rankplot/pkg/logger"
)

// Inline chart geometry in SVG user units.
const (
	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 20.0
	marginBottom = 50.0
	markRadius   = 4.0
	tickCount    = 5
	rangePadding = 0.05
)

type pageData struct {
	Title    string
	Blurb    string
	Error    string
	FrameID  string
	Revision uint64
	X        axisData
	Y        axisData
	Legend   []service.LegendEntry
	Chart    chartData
	Points   int
	Dropped  int
}

type axisData struct {
	Name        string
	Description string
	Options     []option
}

type option struct {
	Name     string
	Selected bool
}

type chartData struct {
	Width, Height            int
	Left, Top, Right, Bottom float64
	Opacity                  float64
	Marks                    []markData
	XTicks                   []tickData
	YTicks                   []tickData
}

type markData struct {
	CX, CY float64
	R      float64
	Fill   string
	Title  string
}

type tickData struct {
	Pos   float64
	Label string
}

// handlePage handles GET /: the chart, legend, selectors and descriptions.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, "")
}

// handleSelect handles POST /view with form fields axis and field, then
// redirects back to the page.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	const op = "api.select"
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := s.view.SetField(r.Context(), r.PostForm.Get("axis"), r.PostForm.Get("field")); err != nil {
		status, _ := classify(err)
		s.writePage(w, r, status, Wrap(op, err).Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	f := s.view.Frame()
	data := pageData{
		Title:    "Dynamic Axes Chart",
		Blurb:    service.GameBlurb,
		Error:    errMsg,
		FrameID:  f.ID,
		Revision: f.Revision,
		X:        axis(f.X, f.XDesc),
		Y:        axis(f.Y, f.YDesc),
		Legend:   service.Legend(),
		Chart:    s.chart(f),
		Points:   len(f.Result.Points),
		Dropped:  f.Result.Dropped,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error(r.Context(), "page render failed", logger.Error(WrapKind("api.page", ErrTemplate, err)))
	}
}

func axis(selected model.Field, desc string) axisData {
	a := axisData{Name: selected.String(), Description: desc}
	for _, f := range model.Fields() {
		a.Options = append(a.Options, option{Name: f.String(), Selected: f == selected})
	}
	return a
}

// chart lays out the frame's points inside the inline SVG.
func (s *Server) chart(f service.Frame) chartData {
	c := chartData{
		Width:   s.chartWidth,
		Height:  s.chartHeight,
		Left:    marginLeft,
		Top:     marginTop,
		Right:   float64(s.chartWidth) - marginRight,
		Bottom:  float64(s.chartHeight) - marginBottom,
		Opacity: rank.MarkOpacity,
	}

	pts := f.Result.Points
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	xlo, xhi := paddedRange(xs)
	ylo, yhi := paddedRange(ys)

	sx := func(v float64) float64 { return c.Left + (v-xlo)/(xhi-xlo)*(c.Right-c.Left) }
	sy := func(v float64) float64 { return c.Bottom - (v-ylo)/(yhi-ylo)*(c.Bottom-c.Top) }

	c.Marks = make([]markData, len(pts))
	for i, p := range pts {
		c.Marks[i] = markData{
			CX:    round2(sx(p.X)),
			CY:    round2(sy(p.Y)),
			R:     markRadius,
			Fill:  p.Bucket.Hex(),
			Title: p.Tooltip,
		}
	}
	for i := 0; i < tickCount; i++ {
		t := float64(i) / float64(tickCount-1)
		xv := xlo + t*(xhi-xlo)
		yv := ylo + t*(yhi-ylo)
		c.XTicks = append(c.XTicks, tickData{Pos: round2(sx(xv)), Label: tickLabel(xv)})
		c.YTicks = append(c.YTicks, tickData{Pos: round2(sy(yv)), Label: tickLabel(yv)})
	}
	return c
}

// paddedRange returns bounds around vs with a small margin. Empty or
// constant input still yields a non-empty range.
func paddedRange(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		d := math.Max(math.Abs(lo)*0.1, 1)
		return lo - d, hi + d
	}
	pad := (hi - lo) * rangePadding
	return lo - pad, hi + pad
}

func tickLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
