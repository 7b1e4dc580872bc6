package fetch

import "errors"

// Sentinel errors for a fetch run.
var (
	ErrStatus   = errors.New("unexpected response status")
	ErrRejected = errors.New("leaderboard request rejected")
	ErrEmpty    = errors.New("leaderboard is empty")
)
