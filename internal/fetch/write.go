package fetch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Header is the first line of a leaderboard CSV.
const Header = "username,tr,rank,glicko,rd,apm,pps,vs"

// cacheFor is how long a snapshot is advertised as fresh.
const cacheFor = time.Hour

// WriteCSV writes entries in loader order. Entries whose username would
// break the comma-split format are skipped and counted.
func WriteCSV(w io.Writer, entries []Entry) (written, skipped int, err error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return 0, 0, fmt.Errorf("write csv: %w", err)
	}
	for _, e := range entries {
		if e.Username == "" || strings.ContainsAny(e.Username, ",\r\n") {
			skipped++
			continue
		}
		l := e.League
		fields := []string{
			e.Username,
			num(l.TR),
			l.Rank,
			num(l.Glicko),
			num(l.RD),
			num(l.APM),
			num(l.PPS),
			num(l.VS),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return written, skipped, fmt.Errorf("write csv: %w", err)
		}
		written++
	}
	if err := bw.Flush(); err != nil {
		return written, skipped, fmt.Errorf("write csv: %w", err)
	}
	return written, skipped, nil
}

// num formats v in plain decimal so the loader accepts it.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Snapshot wraps data with its creation and expiry times in Unix
// milliseconds.
type Snapshot struct {
	Created    int64 `json:"created"`
	CacheUntil int64 `json:"cache_until"`
	Data       any   `json:"data"`
}

// WriteSnapshot writes data as an indented Snapshot created at now.
func WriteSnapshot(w io.Writer, data any, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(Snapshot{
		Created:    now.UnixMilli(),
		CacheUntil: now.Add(cacheFor).UnixMilli(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
