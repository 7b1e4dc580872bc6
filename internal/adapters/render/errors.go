package render

import "errors"

// Sentinel kinds for chart rendering errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	ErrInvalidSize       = errors.New("invalid chart size")
	ErrRender            = errors.New("render chart")
)
