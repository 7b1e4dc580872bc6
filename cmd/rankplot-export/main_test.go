package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rankplot/internal/adapters/render"
	"github.com/okian/rankplot/internal/adapters/repository"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/types"
	"github.com/okian/rankplot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const players = `username,tr,rank,glicko,rd,apm,pps,vs
alice,12000,a,1800,60,40,2.5,90
bob,9000,zz,1500,70,30,1.8,60
carol,24000,x+,2900,55,190,4.1,410
`

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a leaderboard CSV", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "players.csv")
		So(os.WriteFile(csvPath, []byte(players), 0o600), ShouldBeNil)
		var stdout, stderr bytes.Buffer

		Convey("When exporting JSON to stdout", func() {
			err := run(ctx, []string{"-csv", csvPath, "-x", "apm", "-y", "glicko", "-format", "JSON"}, &stdout, &stderr)
			So(err, ShouldBeNil)

			var enc types.Encoding
			So(json.Unmarshal(stdout.Bytes(), &enc), ShouldBeNil)

			Convey("Then the encoding carries the requested axes", func() {
				So(enc.X, ShouldEqual, "APM")
				So(enc.Y, ShouldEqual, "Glicko")
				So(enc.Points, ShouldEqual, 2)
				So(enc.Dropped, ShouldEqual, 1)
				So(enc.Series, ShouldHaveLength, 9)
			})
		})

		Convey("When exporting SVG to a file", func() {
			out := filepath.Join(dir, "chart.svg")
			So(run(ctx, []string{"-csv", csvPath, "-o", out}, &stdout, &stderr), ShouldBeNil)

			body, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "<svg")
			So(stdout.Len(), ShouldEqual, 0)
		})

		Convey("When exporting a small PNG", func() {
			So(run(ctx, []string{"-csv", csvPath, "-format", "png", "-width", "320", "-height", "200"}, &stdout, &stderr), ShouldBeNil)
			So(bytes.HasPrefix(stdout.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("When rendering fails with an output file", func() {
			out := filepath.Join(dir, "chart.svg")
			err := run(ctx, []string{"-csv", csvPath, "-o", out, "-width", "0"}, &stdout, &stderr)
			So(errors.Is(err, render.ErrInvalidSize), ShouldBeTrue)

			Convey("Then no partial file is left behind", func() {
				_, statErr := os.Stat(out)
				So(errors.Is(statErr, os.ErrNotExist), ShouldBeTrue)
			})

			Convey("Then an existing file keeps its contents", func() {
				So(os.WriteFile(out, []byte("previous"), 0o600), ShouldBeNil)
				err := run(ctx, []string{"-csv", csvPath, "-o", out, "-height", "-5"}, &stdout, &stderr)
				So(errors.Is(err, render.ErrInvalidSize), ShouldBeTrue)

				body, readErr := os.ReadFile(out)
				So(readErr, ShouldBeNil)
				So(string(body), ShouldEqual, "previous")
			})
		})

		Convey("When the field is unknown", func() {
			err := run(ctx, []string{"-csv", csvPath, "-x", "elo"}, &stdout, &stderr)
			So(errors.Is(err, model.ErrInvalidField), ShouldBeTrue)
		})

		Convey("When the format is unknown", func() {
			err := run(ctx, []string{"-csv", csvPath, "-format", "gif"}, &stdout, &stderr)
			So(errors.Is(err, render.ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("When the CSV is missing", func() {
			err := run(ctx, []string{"-csv", filepath.Join(dir, "nope.csv")}, &stdout, &stderr)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})

		Convey("When a flag is unknown", func() {
			err := run(ctx, []string{"-colour", "red"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
			So(stderr.String(), ShouldContainSubstring, "colour")
		})

		Convey("When positional arguments are given", func() {
			err := run(ctx, []string{"-csv", csvPath, "extra"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
		})
	})
}
