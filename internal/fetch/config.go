// Package fetch downloads the league leaderboard page by page and writes it
// as the CSV the rankplot loader reads.
package fetch

import "time"

// Defaults match what the leaderboard API tolerates without throttling.
const (
	DefaultBaseURL   = "https://ch.tetr.io/api"
	DefaultPageSize  = 100
	DefaultDelay     = 1750 * time.Millisecond
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "rankplot-fetch"
)

// Config holds configuration for a fetch run.
type Config struct {
	BaseURL   string        // API root, without a trailing slash
	PageSize  int           // Entries requested per page
	Delay     time.Duration // Pause between page requests
	MaxPages  int           // Stop after this many pages; 0 means all
	Timeout   time.Duration // Per-request timeout
	SessionID string        // Sent as X-Session-ID so pages come from one snapshot
	UserAgent string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.PageSize <= 0 {
		out.PageSize = DefaultPageSize
	}
	if out.Delay < 0 {
		out.Delay = 0
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	return out
}

// League holds the ranked stats of one entry.
type League struct {
	TR     float64 `json:"tr"`
	Rank   string  `json:"rank"`
	Glicko float64 `json:"glicko"`
	RD     float64 `json:"rd"`
	GXE    float64 `json:"gxe"`
	APM    float64 `json:"apm"`
	PPS    float64 `json:"pps"`
	VS     float64 `json:"vs"`
}

// Entry is one leaderboard row as the API returns it.
type Entry struct {
	Username string `json:"username"`
	League   League `json:"league"`
}

// Stats holds run statistics.
type Stats struct {
	Pages     int
	Entries   int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
