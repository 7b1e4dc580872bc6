package check

import "errors"

// Sentinel errors for a check run.
var (
	ErrUnhealthy = errors.New("service unhealthy")
	ErrMismatch  = errors.New("server disagrees with local encoding")
	ErrPage      = errors.New("page check failed")
)
