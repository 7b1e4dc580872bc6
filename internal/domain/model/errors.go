package model

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned for a selector outside TR, APM, PPS, Glicko, RD, VS.
var ErrInvalidField = errors.New("invalid field")

// FieldError carries the rejected selector value.
type FieldError struct {
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidField, e.Value)
}

// Unwrap makes errors.Is(err, ErrInvalidField) hold.
func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}
