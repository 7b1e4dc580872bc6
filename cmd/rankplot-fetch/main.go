package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/rankplot/internal/fetch"
	"github.com/okian/rankplot/pkg/logger"
)

// errUsage reports bad flags; flag has already printed the details.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Get().Error(ctx, "fetch failed", logger.Error(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rankplot-fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		baseURL    = fs.String("url", fetch.DefaultBaseURL, "Leaderboard API root")
		out        = fs.String("o", "", "Output CSV file (default stdout)")
		thresholds = fs.String("thresholds", "", "Also write rank thresholds as JSON to this file")
		pageSize   = fs.Int("limit", fetch.DefaultPageSize, "Entries per page")
		delay      = fs.Duration("delay", fetch.DefaultDelay, "Pause between page requests")
		maxPages   = fs.Int("max-pages", 0, "Stop after this many pages (0 fetches all)")
		timeout    = fs.Duration("timeout", fetch.DefaultTimeout, "HTTP request timeout")
		session    = fs.String("session", "", "X-Session-ID sent with every request")
		level      = fs.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return errUsage
	}
	if err := logger.SetLevelString(*level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	log := logger.Named("fetch")
	entries, stats, err := fetch.Leaderboard(ctx, &fetch.Config{
		BaseURL:   strings.TrimSuffix(*baseURL, "/"),
		PageSize:  *pageSize,
		Delay:     *delay,
		MaxPages:  *maxPages,
		Timeout:   *timeout,
		SessionID: *session,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	written, skipped, err := fetch.WriteCSV(&buf, entries)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn(ctx, "entries with unusable usernames skipped", logger.Int("skipped", skipped))
	}
	if err := output(*out, stdout, buf.Bytes()); err != nil {
		return err
	}

	if *thresholds != "" {
		buf.Reset()
		if err := fetch.WriteSnapshot(&buf, fetch.Thresholds(entries), time.Now()); err != nil {
			return err
		}
		if err := os.WriteFile(*thresholds, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write thresholds: %w", err)
		}
	}

	log.Info(ctx, "leaderboard fetched",
		logger.Int("pages", stats.Pages),
		logger.Int("rows", written),
		logger.Duration("duration", stats.Duration),
		logger.String("output", *out),
	)
	return nil
}

// output writes body to path, or to stdout when path is empty.
func output(path string, stdout io.Writer, body []byte) error {
	if path == "" {
		if _, err := stdout.Write(body); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
