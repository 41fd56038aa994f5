package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.UploadsDir, convey.ShouldEqual, "public/uploads")
				convey.So(cfg.MaxAudioAgeHours, convey.ShouldEqual, 24)
				convey.So(cfg.SampleRate, convey.ShouldEqual, 4100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("INTAKE_ADDR", ":8080")
			_ = os.Setenv("INTAKE_UPLOADS_DIR", "/tmp/uploads")
			_ = os.Setenv("INTAKE_BACKEND_URL", "http://backend:5000")
			_ = os.Setenv("INTAKE_MAX_AUDIO_AGE_HOURS", "48")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.UploadsDir, convey.ShouldEqual, "/tmp/uploads")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://backend:5000")
				convey.So(cfg.MaxAudioAgeHours, convey.ShouldEqual, 48)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "intake.yaml")
			yaml := "addr: \":7070\"\nuploads_dir: /var/lib/intake/uploads\nchannels: 1\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("INTAKE_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.UploadsDir, convey.ShouldEqual, "/var/lib/intake/uploads")
				convey.So(cfg.Channels, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("INTAKE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigKeys(t *testing.T) {
	convey.Convey("Given session key configuration", t, func() {
		convey.Convey("When the hash key is missing", func() {
			cfg := config.New()

			_, _, err := cfg.Keys()

			convey.Convey("Then key extraction should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When keys are present", func() {
			cfg := config.New()
			cfg.SessionHashKey = "0123456789abcdef0123456789abcdef"
			cfg.SessionBlockKey = "0123456789abcdef"

			hash, block, err := cfg.Keys()

			convey.Convey("Then both keys should be returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(hash), convey.ShouldEqual, 32)
				convey.So(len(block), convey.ShouldEqual, 16)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"INTAKE_CONFIG",
		"INTAKE_ADDR",
		"INTAKE_UPLOADS_DIR",
		"INTAKE_BACKEND_URL",
		"INTAKE_MAX_AUDIO_AGE_HOURS",
	} {
		_ = os.Unsetenv(key)
	}
}
