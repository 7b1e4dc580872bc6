package config_test

import (
	"testing"
	"time"

	"github.com/okian/rankplot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DataPath, convey.ShouldEqual, "data/mini.csv")
			convey.So(cfg.DefaultX, convey.ShouldEqual, "PPS")
			convey.So(cfg.DefaultY, convey.ShouldEqual, "TR")
			convey.So(cfg.SkipMalformedRows, convey.ShouldBeFalse)
			convey.So(cfg.ChartWidth, convey.ShouldEqual, 1280)
			convey.So(cfg.ChartHeight, convey.ShouldEqual, 720)
			convey.So(cfg.MaxChartDimension, convey.ShouldEqual, 4096)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "rankplot")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "view")
			convey.So(cfg.MetricsRefreshInterval, convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
