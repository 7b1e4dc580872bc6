package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/pkg/metrics"
)

// Supported output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
func Formats() []string { return []string{FormatSVG, FormatPNG} }

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Write renders res to w in the named format.
func Write(w io.Writer, format string, res encoding.Result, opts ...Option) error {
	switch strings.ToLower(format) {
	case FormatSVG:
		return SVG(w, res, opts...)
	case FormatPNG:
		return PNG(w, res, opts...)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func observe(format string, start time.Time) {
	metrics.RecordRender(format, float64(time.Since(start).Microseconds())/1000)
}

func axisTitle(res encoding.Result) string {
	return res.Y.String() + " vs " + res.X.String()
}
