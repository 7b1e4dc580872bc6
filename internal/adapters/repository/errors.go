package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for dataset errors.
var (
	ErrLoad     = errors.New("load dataset")
	ErrShortRow = errors.New("row has fewer than 8 columns")
	ErrNumber   = errors.New("not a finite base-10 number")
	ErrNotFound = errors.New("record not found")
)

// LoadError locates a failure inside the input file. Line is 1-based and 0
// when the failure is not tied to a line (open or read errors). Column is
// empty unless a specific field failed to parse.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("%s: %s:%d: column %s: %v", ErrLoad, where, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s: %s:%d: %v", ErrLoad, where, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", ErrLoad, where, e.Err)
	}
}

// Unwrap exposes both ErrLoad and the underlying cause to errors.Is.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}
