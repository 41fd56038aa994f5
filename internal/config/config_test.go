package config_test

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.UploadsDir, convey.ShouldEqual, "public/uploads")
			convey.So(cfg.BackendURL, convey.ShouldEqual, "http://127.0.0.1:5000")
			convey.So(cfg.SessionMaxAge, convey.ShouldEqual, 3600)
			convey.So(cfg.MaxAudioAgeHours, convey.ShouldEqual, 24)
			convey.So(cfg.SweepInterval, convey.ShouldEqual, time.Hour)
			convey.So(cfg.SampleRate, convey.ShouldEqual, 4100)
			convey.So(cfg.Channels, convey.ShouldEqual, 2)
			convey.So(cfg.BitDepth, convey.ShouldEqual, 16)
			convey.So(cfg.RecordSeconds, convey.ShouldEqual, 10)
		})
	})
}
