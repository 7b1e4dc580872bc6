// Package render draws an encoded frame as a scatter chart.
package render

// Default chart configuration constants.
const (
	defaultWidth  = 1280
	defaultHeight = 720
	defaultTitle  = "TETR.IO stat comparisons"
)

type settings struct {
	width  int
	height int
	title  string
}

// Option applies a configuration option to a render call.
type Option func(*settings)

// WithSize sets the output size in pixels. Non-positive values are rejected
// at render time.
func WithSize(width, height int) Option {
	return func(s *settings) {
		s.width = width
		s.height = height
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(s *settings) {
		if title != "" {
			s.title = title
		}
	}
}

func newSettings(opts []Option) (settings, error) {
	s := settings{width: defaultWidth, height: defaultHeight, title: defaultTitle}
	for _, opt := range opts {
		opt(&s)
	}
	if s.width <= 0 || s.height <= 0 {
		return s, ErrInvalidSize
	}
	return s, nil
}
