package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/rankplot/internal/adapters/render"
	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteJSON(t *testing.T) {
	Convey("Given a value JSON cannot represent", t, func() {
		rec := httptest.NewRecorder()
		writeJSON(rec, http.StatusOK, map[string]float64{"mean": math.NaN()})

		Convey("The response is a 500 envelope, not a truncated 200", func() {
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			var body errorResponse
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Code, ShouldEqual, "internal_error")
			So(body.Message, ShouldNotBeEmpty)
		})
	})

	Convey("Given an encodable value", t, func() {
		rec := httptest.NewRecorder()
		writeJSON(rec, http.StatusCreated, map[string]int{"points": 3})

		So(rec.Code, ShouldEqual, http.StatusCreated)
		So(rec.Body.String(), ShouldEqual, "{\"points\":3}\n")
	})
}

func TestClassify(t *testing.T) {
	Convey("Given errors from each layer", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{Wrap("api.view", &model.FieldError{Value: "elo"}), http.StatusBadRequest, "invalid_field"},
			{Wrap("api.view", service.ErrInvalidAxis), http.StatusBadRequest, "invalid_axis"},
			{Wrap("api.chart_png", render.ErrInvalidSize), http.StatusBadRequest, "invalid_size"},
			{WrapKind("api.select", ErrBadRequest, errors.New("no field")), http.StatusBadRequest, "bad_request"},
			{Wrap("api.view", service.ErrNotStarted), http.StatusServiceUnavailable, "unavailable"},
			{Wrap("api.page", ErrTemplate), http.StatusInternalServerError, "internal_error"},
		}
		for _, tc := range cases {
			status, code := classify(tc.err)
			So(status, ShouldEqual, tc.status)
			So(code, ShouldEqual, tc.code)
		}
	})
}
