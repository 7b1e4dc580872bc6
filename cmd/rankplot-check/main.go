package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/rankplot/internal/check"
	"github.com/okian/rankplot/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultCheckTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		csvPath = flag.String("csv", "data/mini.csv", "CSV the server was started with")
		skip    = flag.Bool("skip-malformed", false, "Skip malformed rows like a server started with skip_malformed_rows")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also write the log to this file")
		verbose = flag.Bool("verbose", false, "Log every pair")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), check.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	closer, err := check.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	cfg := &check.Config{
		BaseURL:       *baseURL,
		CSVPath:       *csvPath,
		SkipMalformed: *skip,
		Workers:       *workers,
		Timeout:       *timeout,
		Verbose:       *verbose,
	}

	if _, err := check.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "check failed", logger.Error(err))
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
