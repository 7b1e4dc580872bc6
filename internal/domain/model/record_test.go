package model_test

import (
	"testing"

	model "github.com/okian/rankplot/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecordValue(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		r := model.Record{
			Username: "alice",
			TR:       12000,
			Rank:     "a",
			Glicko:   1500,
			RD:       60,
			APM:      150,
			PPS:      2.5,
			VS:       300,
		}

		convey.Convey("When reading each field", func() {
			convey.Convey("Then the accessor should select the matching column", func() {
				convey.So(r.Value(model.FieldTR), convey.ShouldEqual, 12000)
				convey.So(r.Value(model.FieldGlicko), convey.ShouldEqual, 1500)
				convey.So(r.Value(model.FieldRD), convey.ShouldEqual, 60)
				convey.So(r.Value(model.FieldAPM), convey.ShouldEqual, 150)
				convey.So(r.Value(model.FieldPPS), convey.ShouldEqual, 2.5)
				convey.So(r.Value(model.FieldVS), convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When reading an invalid field", func() {
			convey.So(r.Value(model.FieldInvalid), convey.ShouldEqual, 0)
			convey.So(r.Value(model.Field(99)), convey.ShouldEqual, 0)
		})
	})
}
