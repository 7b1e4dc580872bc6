package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/rankplot/internal/adapters/http/api"
	"github.com/okian/rankplot/internal/adapters/repository"
	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/types"
	"github.com/okian/rankplot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "records": 4}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newFixture() (*service.Controller, *http.ServeMux) {
	store := repository.NewMemoryStore([]model.Record{
		{Username: "alice", TR: 12000, Rank: "a", Glicko: 1800, RD: 60, APM: 40, PPS: 2.5, VS: 90},
		{Username: "bob", TR: 9000, Rank: "zz", Glicko: 1500, RD: 70, APM: 30, PPS: 1.8, VS: 60},
		{Username: "carol", TR: 24000, Rank: "x+", Glicko: 2900, RD: 55, APM: 190, PPS: 4.1, VS: 410},
		{Username: "dave", TR: 300, Rank: "d", Glicko: 900, RD: 80, APM: 10, PPS: 0.7, VS: 20},
	})
	ctrl, err := service.NewController(context.Background(), store)
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(ctrl, stubStats{}, api.WithChartSize(640, 360), api.WithMaxChartDimension(1000)).
		Register(context.Background(), mux)
	return ctrl, mux
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	return serve(mux, httptest.NewRequest(http.MethodGet, target, http.NoBody))
}

func decode(rec *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(rec.Body.Bytes(), v), ShouldBeNil)
}

func TestPage(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		_, mux := newFixture()

		Convey("When the page is requested", func() {
			rec := get(mux, "/")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")

			doc, err := goquery.NewDocumentFromReader(rec.Body)
			So(err, ShouldBeNil)

			Convey("Then one circle is drawn per plotted player", func() {
				circles := doc.Find("svg#chart g.marks circle")
				So(circles.Length(), ShouldEqual, 3)
				So(doc.Find("svg#chart g.marks").AttrOr("fill-opacity", ""), ShouldEqual, "0.6")

				var titles []string
				circles.Each(func(_ int, c *goquery.Selection) {
					titles = append(titles, c.Find("title").Text())
				})
				So(strings.Join(titles, "\n"), ShouldContainSubstring, "Username: alice")
				So(strings.Join(titles, "\n"), ShouldNotContainSubstring, "bob")
			})

			Convey("And the marks use the bucket colors", func() {
				fills := map[string]bool{}
				doc.Find("g.marks circle").Each(func(_ int, c *goquery.Selection) {
					fills[c.AttrOr("fill", "")] = true
				})
				So(fills["#46ad51"], ShouldBeTrue)
				So(fills["#a763ea"], ShouldBeTrue)
			})

			Convey("And the legend lists the ranks from X+ down to D", func() {
				items := doc.Find("aside.legend li")
				So(items.Length(), ShouldEqual, 9)
				So(strings.TrimSpace(items.First().Text()), ShouldEqual, "X+ rank")
				So(strings.TrimSpace(items.Last().Text()), ShouldEqual, "D rank")
				So(doc.Find("aside.legend h2").Text(), ShouldEqual, "Player Ranks")
			})

			Convey("And the selectors show the current fields and descriptions", func() {
				So(doc.Find("#x-field option[selected]").AttrOr("value", ""), ShouldEqual, "PPS")
				So(doc.Find("#y-field option[selected]").AttrOr("value", ""), ShouldEqual, "TR")
				So(doc.Find("#x-field option").Length(), ShouldEqual, 6)

				want, _ := service.Describe(model.FieldTR)
				So(doc.Find("#y-description").Text(), ShouldEqual, want)
				So(doc.Find("#x-label").Text(), ShouldEqual, "PPS")
			})

			Convey("And the page reports the omitted player", func() {
				So(doc.Find("p.meta").Text(), ShouldContainSubstring, "3 players plotted, 1 with unknown rank omitted")
				So(doc.Find("p.error").Length(), ShouldEqual, 0)
				So(doc.Find("head > title").Text(), ShouldEqual, "Dynamic Axes Chart")
			})
		})
	})
}

func TestSelectForm(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		ctrl, mux := newFixture()

		post := func(form url.Values) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/view", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return serve(mux, req)
		}

		Convey("When a valid field is posted for the x axis", func() {
			rec := post(url.Values{"axis": {"x"}, "field": {"apm"}})

			Convey("Then the browser is redirected and the selection changes", func() {
				So(rec.Code, ShouldEqual, http.StatusSeeOther)
				So(rec.Header().Get("Location"), ShouldEqual, "/")
				x, y := ctrl.Selection()
				So(x, ShouldEqual, model.FieldAPM)
				So(y, ShouldEqual, model.FieldTR)
			})

			Convey("And the next page selects the new field", func() {
				doc, err := goquery.NewDocumentFromReader(get(mux, "/").Body)
				So(err, ShouldBeNil)
				So(doc.Find("#x-field option[selected]").AttrOr("value", ""), ShouldEqual, "APM")
			})
		})

		Convey("When an unknown field is posted", func() {
			rec := post(url.Values{"axis": {"y"}, "field": {"foo"}})

			Convey("Then the page is shown with an error and the selection is kept", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				doc, err := goquery.NewDocumentFromReader(rec.Body)
				So(err, ShouldBeNil)
				So(doc.Find("p.error").Text(), ShouldContainSubstring, "foo")
				_, y := ctrl.Selection()
				So(y, ShouldEqual, model.FieldTR)
			})
		})

		Convey("When an unknown axis is posted", func() {
			rec := post(url.Values{"axis": {"z"}, "field": {"TR"}})

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestViewAPI(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		ctrl, mux := newFixture()

		put := func(target, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			return serve(mux, req)
		}

		Convey("When the current view is requested", func() {
			rec := get(mux, "/api/view")
			var frame types.Frame
			decode(rec, &frame)

			Convey("Then it carries the initial frame", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(frame.ID, ShouldEqual, ctrl.Frame().ID)
				So(frame.Revision, ShouldEqual, 1)
				So(frame.Encoding.X, ShouldEqual, "PPS")
				So(frame.Encoding.Y, ShouldEqual, "TR")
				So(frame.Encoding.Points, ShouldEqual, 3)
				So(frame.Encoding.Dropped, ShouldEqual, 1)
				So(frame.Encoding.Series, ShouldHaveLength, 9)
				So(frame.Encoding.Series[0].Name, ShouldEqual, "D rank")
				So(frame.Encoding.Series[8].Name, ShouldEqual, "X+ rank")
			})
		})

		Convey("When the y axis is changed", func() {
			rec := put("/api/view/y", `{"field":"glicko"}`)
			var frame types.Frame
			decode(rec, &frame)

			Convey("Then the new frame is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(frame.Revision, ShouldEqual, 2)
				So(frame.Encoding.X, ShouldEqual, "PPS")
				So(frame.Encoding.Y, ShouldEqual, "Glicko")
				want, _ := service.Describe(model.FieldGlicko)
				So(frame.YDescription, ShouldEqual, want)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := put("/api/view/x", `field=APM`)
			var body errorBody
			decode(rec, &body)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body.Code, ShouldEqual, "bad_request")
		})

		Convey("When the field is unknown", func() {
			rec := put("/api/view/x", `{"field":"elo"}`)
			var body errorBody
			decode(rec, &body)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body.Code, ShouldEqual, "invalid_field")
			So(ctrl.Frame().Revision, ShouldEqual, 1)
		})

		Convey("When the axis is unknown", func() {
			rec := put("/api/view/z", `{"field":"APM"}`)
			var body errorBody
			decode(rec, &body)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body.Code, ShouldEqual, "invalid_axis")
		})
	})
}

func TestEncodeAPI(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		ctrl, mux := newFixture()

		Convey("When only x is given", func() {
			rec := get(mux, "/api/encode?x=apm")
			var enc types.Encoding
			decode(rec, &enc)

			Convey("Then y falls back to the selection and the selection is unchanged", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(enc.X, ShouldEqual, "APM")
				So(enc.Y, ShouldEqual, "TR")
				So(enc.Points, ShouldEqual, 3)
				So(enc.UnknownTokens, ShouldResemble, map[string]int{"zz": 1})
				x, _ := ctrl.Selection()
				So(x, ShouldEqual, model.FieldPPS)
				So(ctrl.Frame().Revision, ShouldEqual, 1)
			})

			Convey("And alice is projected onto the requested pair", func() {
				var found bool
				for _, s := range enc.Series {
					for _, p := range s.Points {
						if p.Username == "alice" {
							found = true
							So(p.X, ShouldEqual, 40)
							So(p.Y, ShouldEqual, 12000)
							So(p.Bucket, ShouldEqual, "A")
							So(s.Color, ShouldEqual, "#46ad51")
						}
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When x is unknown", func() {
			rec := get(mux, "/api/encode?x=foo&y=TR")
			var body errorBody
			decode(rec, &body)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body.Code, ShouldEqual, "invalid_field")
			So(body.Message, ShouldContainSubstring, "foo")
		})

		Convey("When the per-bucket summary is requested", func() {
			rec := get(mux, "/api/summary?x=PPS&y=TR")
			var sum types.Summary
			decode(rec, &sum)

			Convey("Then every bucket is listed with its counts", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(sum.Buckets, ShouldHaveLength, 9)
				counts := map[string]int{}
				for _, b := range sum.Buckets {
					counts[b.Bucket] = b.Count
					if b.Bucket == "A" {
						So(b.X.Mean, ShouldEqual, 2.5)
						So(b.Y.Max, ShouldEqual, 12000)
					}
				}
				So(counts["A"], ShouldEqual, 1)
				So(counts["X+"], ShouldEqual, 1)
				So(counts["D"], ShouldEqual, 1)
				So(counts["S"], ShouldEqual, 0)
			})
		})

		Convey("When the summary has an unknown field", func() {
			So(get(mux, "/api/summary?y=nope").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFieldsAndLegendAPI(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		_, mux := newFixture()

		Convey("When all fields are listed", func() {
			rec := get(mux, "/api/fields")
			var fields []types.Field
			decode(rec, &fields)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(fields, ShouldHaveLength, 6)
			So(fields[0].Name, ShouldEqual, "TR")
			for _, f := range fields {
				So(f.Description, ShouldNotBeEmpty)
			}
		})

		Convey("When one field is requested case-insensitively", func() {
			rec := get(mux, "/api/fields/rd")
			var field types.Field
			decode(rec, &field)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(field.Name, ShouldEqual, "RD")
			So(field.Description, ShouldContainSubstring, "Rating Deviation")
		})

		Convey("When an unknown field is requested", func() {
			rec := get(mux, "/api/fields/foo")
			var body errorBody
			decode(rec, &body)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(body.Code, ShouldEqual, "invalid_field")
		})

		Convey("When the legend is requested", func() {
			rec := get(mux, "/api/legend")
			var legend []types.LegendEntry
			decode(rec, &legend)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(legend, ShouldHaveLength, 9)
			So(legend[0], ShouldResemble, types.LegendEntry{Bucket: "X+", Name: "X+ rank", Color: "#a763ea"})
			So(legend[8].Bucket, ShouldEqual, "D")
		})
	})
}

func TestChartRoutes(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		_, mux := newFixture()

		Convey("When the SVG chart is requested", func() {
			rec := get(mux, "/chart.svg?x=APM&y=VS")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			So(rec.Body.String(), ShouldContainSubstring, "<svg")
		})

		Convey("When a small PNG chart is requested", func() {
			rec := get(mux, "/chart.png?w=320&h=200")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("When the size is out of range", func() {
			for _, q := range []string{"w=0", "h=-3", "w=5000", "h=tall"} {
				rec := get(mux, "/chart.png?"+q)
				var body errorBody
				decode(rec, &body)

				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(body.Code, ShouldEqual, "invalid_size")
			}
		})

		Convey("When the chart field is unknown", func() {
			So(get(mux, "/chart.svg?x=foo").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestChartCache(t *testing.T) {
	Convey("Given a server whose chart cache follows the controller", t, func() {
		ctx := context.Background()
		ctrl, _ := newFixture()
		cache := api.NewChartCache(640, 360)
		So(ctrl.AddRenderer(ctx, cache), ShouldBeNil)
		mux := http.NewServeMux()
		api.NewServer(ctrl, stubStats{}, api.WithChartSize(640, 360), api.WithChartCache(cache)).
			Register(ctx, mux)

		Convey("When the current selection is requested at the default size", func() {
			rec := get(mux, "/chart.svg")
			cached, rev, ok := cache.Lookup(model.FieldPPS, model.FieldTR, 640, 360)

			Convey("Then the pre-rendered chart is served", func() {
				So(ok, ShouldBeTrue)
				So(rev, ShouldEqual, 1)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "image/svg+xml")
				So(rec.Header().Get(api.ChartRevisionHeader), ShouldEqual, "1")
				So(rec.Body.Bytes(), ShouldResemble, cached)
			})
		})

		Convey("When the selection changes", func() {
			_, err := ctrl.SetYField(ctx, model.FieldVS)
			So(err, ShouldBeNil)
			rec := get(mux, "/chart.svg")

			Convey("Then the cache holds the new frame", func() {
				So(rec.Header().Get(api.ChartRevisionHeader), ShouldEqual, "2")
				_, _, stale := cache.Lookup(model.FieldPPS, model.FieldTR, 640, 360)
				So(stale, ShouldBeFalse)
			})
		})

		Convey("When another pair, size or format is requested", func() {
			for _, target := range []string{"/chart.svg?y=VS", "/chart.svg?w=320", "/chart.png"} {
				rec := get(mux, target)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get(api.ChartRevisionHeader), ShouldBeEmpty)
			}
		})
	})

	Convey("Given a cache that cannot draw its size", t, func() {
		ctx := context.Background()
		ctrl, _ := newFixture()
		cache := api.NewChartCache(0, 360)

		Convey("Then registering it fails and nothing is cached", func() {
			So(ctrl.AddRenderer(ctx, cache), ShouldNotBeNil)
			_, _, ok := cache.Lookup(model.FieldPPS, model.FieldTR, 0, 360)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given a server over four players", t, func() {
		_, mux := newFixture()

		Convey("When metrics are scraped after a request", func() {
			_ = get(mux, "/api/legend")
			rec := get(mux, "/healthz")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "rankplot_view_http_requests_total")
		})

		Convey("When stats are requested", func() {
			rec := get(mux, "/stats")
			var stats map[string]any
			decode(rec, &stats)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, float64(4))
		})

		Convey("When a request carries an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/fields", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "req-123")
			rec := serve(mux, req)

			So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "req-123")
		})

		Convey("When a request has no id", func() {
			rec := get(mux, "/api/fields")

			So(rec.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
		})

		Convey("When a route does not exist", func() {
			So(get(mux, "/nope").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRegisterNilMux(t *testing.T) {
	Convey("Given a server", t, func() {
		ctrl, _ := newFixture()
		s := api.NewServer(ctrl, stubStats{})

		So(func() { s.Register(context.Background(), nil) }, ShouldPanic)
	})
}
