package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/okian/rankplot/internal/adapters/render"
	"github.com/okian/rankplot/internal/adapters/repository"
	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/types"
	"github.com/okian/rankplot/pkg/logger"
)

// formatJSON writes the encoding instead of a chart.
const formatJSON = "json"

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
			logger.Get().Error(ctx, "export failed", logger.Error(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rankplot-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		csvPath = fs.String("csv", "data/mini.csv", "Leaderboard CSV to plot")
		x       = fs.String("x", "PPS", "Field on the horizontal axis")
		y       = fs.String("y", "TR", "Field on the vertical axis")
		format  = fs.String("format", render.FormatSVG, "Output format: svg, png or json")
		out     = fs.String("o", "", "Output file (default stdout)")
		width   = fs.Int("width", 1280, "Chart width in pixels")
		height  = fs.Int("height", 720, "Chart height in pixels")
		skip    = fs.Bool("skip-malformed", false, "Skip rows that fail to parse instead of aborting")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return errUsage
	}

	if !strings.EqualFold(*format, formatJSON) && !slices.Contains(render.Formats(), strings.ToLower(*format)) {
		return fmt.Errorf("%w: %q", render.ErrUnsupportedFormat, *format)
	}

	log := logger.Named("export")
	records, err := repository.Load(ctx, *csvPath,
		repository.WithSkipMalformed(*skip),
		repository.WithLogger(log.Named("loader")),
	)
	if err != nil {
		return err
	}
	res, err := encoding.EncodeNames(records, *x, *y)
	if err != nil {
		return err
	}
	if res.Dropped > 0 {
		log.Warn(ctx, "records with unknown rank omitted",
			logger.Int("dropped", res.Dropped),
			logger.Any("tokens", res.UnknownTokens),
		)
	}

	// Render fully before touching -o so a failure never leaves a partial file.
	var buf bytes.Buffer
	if strings.EqualFold(*format, formatJSON) {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(types.FromResult(res)); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	} else if err := render.Write(&buf, *format, res, render.WithSize(*width, *height)); err != nil {
		return err
	}

	if *out != "" {
		if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if _, err := buf.WriteTo(stdout); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Info(ctx, "exported",
		logger.String("x", res.X.String()),
		logger.String("y", res.Y.String()),
		logger.String("format", strings.ToLower(*format)),
		logger.Int("points", len(res.Points)),
		logger.String("output", *out),
	)
	return nil
}
