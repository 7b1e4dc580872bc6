package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// maxBodyBytes bounds how much of one page is read.
const maxBodyBytes = 16 << 20

type pageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Entries []Entry `json:"entries"`
	} `json:"data"`
}

// client requests single leaderboard pages.
type client struct {
	http *http.Client
	cfg  Config
}

func newClient(cfg Config) *client {
	return &client{http: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}
}

// page returns the entries ranked below after, or the top page when after
// is nil.
func (c *client) page(ctx context.Context, after *float64) ([]Entry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	if after != nil {
		q.Set("after", strconv.FormatFloat(*after, 'f', -1, 64)+":0:0")
	}
	target := c.cfg.BaseURL + "/users/by/league?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.SessionID != "" {
		req.Header.Set("X-Session-ID", c.cfg.SessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read leaderboard page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var pr pageResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("decode leaderboard page: %w", err)
	}
	if !pr.Success {
		return nil, fmt.Errorf("%w: %s", ErrRejected, pr.Error)
	}
	return pr.Data.Entries, nil
}
