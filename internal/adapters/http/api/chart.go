package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/rankplot/internal/adapters/render"
)

// ChartRevisionHeader is set on charts served from the frame cache.
const ChartRevisionHeader = "X-Chart-Revision"

// handleChart serves GET /chart.svg and GET /chart.png with optional x, y,
// w and h query parameters.
func (s *Server) handleChart(format string) http.HandlerFunc {
	op := "api.chart_" + format
	return func(w http.ResponseWriter, r *http.Request) {
		x, y, err := s.fields(r)
		if err != nil {
			s.fail(w, r, Wrap(op, err))
			return
		}
		width, height, err := s.chartSize(r)
		if err != nil {
			s.fail(w, r, Wrap(op, err))
			return
		}
		if format == render.FormatSVG && s.chartCache != nil {
			if svg, rev, ok := s.chartCache.Lookup(x, y, width, height); ok {
				w.Header().Set("Content-Type", render.ContentType(format))
				w.Header().Set("Cache-Control", "no-store")
				w.Header().Set(ChartRevisionHeader, strconv.FormatUint(rev, 10))
				_, _ = w.Write(svg)
				return
			}
		}
		res, err := s.view.Encode(r.Context(), x, y)
		if err != nil {
			s.fail(w, r, Wrap(op, err))
			return
		}

		var buf bytes.Buffer
		if err := render.Write(&buf, format, res, render.WithSize(width, height)); err != nil {
			s.fail(w, r, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", render.ContentType(format))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

// chartSize reads w and h, defaulting to the configured size. Values must
// lie in [1, maxDimension].
func (s *Server) chartSize(r *http.Request) (width, height int, err error) {
	width, height = s.chartWidth, s.chartHeight
	q := r.URL.Query()
	if v := q.Get("w"); v != "" {
		if width, err = s.dimension(v); err != nil {
			return 0, 0, err
		}
	}
	if v := q.Get("h"); v != "" {
		if height, err = s.dimension(v); err != nil {
			return 0, 0, err
		}
	}
	return width, height, nil
}

func (s *Server) dimension(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", render.ErrInvalidSize, err)
	}
	if n < 1 || n > s.maxDimension {
		return 0, fmt.Errorf("%w: %d outside 1..%d", render.ErrInvalidSize, n, s.maxDimension)
	}
	return n, nil
}
