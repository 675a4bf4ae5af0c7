package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/diveplan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		chdirTemp(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "127.0.0.1:8080")
				convey.So(cfg.Locale, convey.ShouldEqual, "en")
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DIVEPLAN_ADDR", ":9090")
			_ = os.Setenv("DIVEPLAN_LOCALE", "ru")
			_ = os.Setenv("DIVEPLAN_MAX_PARTICIPANTS", "40")
			_ = os.Setenv("DIVEPLAN_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Locale, convey.ShouldEqual, "ru")
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 40)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeTempFile(t, "diveplan.yaml", `
addr: ":7070"
locale: ru
max_participants: 60
log_level: debug
`)
			_ = os.Setenv("DIVEPLAN_CONFIG", path)
			_ = os.Setenv("DIVEPLAN_ADDR", ":8081")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")       // Overridden by env
				convey.So(cfg.Locale, convey.ShouldEqual, "ru")        // From file
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 60) // From file
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")   // From file
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)     // From defaults
			})
		})

		convey.Convey("When a .env file is present", func() {
			writeTempFile(t, ".env", "DIVEPLAN_ADDR=:6060\nDIVEPLAN_LOCALE=ru\n")
			_ = os.Setenv("DIVEPLAN_LOCALE", "en")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.Locale, convey.ShouldEqual, "en")
			})
		})

		convey.Convey("When an explicit env file does not exist", func() {
			_ = os.Setenv("DIVEPLAN_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeTempFile(t, "broken.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("DIVEPLAN_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DIVEPLAN_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("DIVEPLAN_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown locale", func() {
			_ = os.Setenv("DIVEPLAN_LOCALE", "xx")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive participant cap", func() {
			_ = os.Setenv("DIVEPLAN_MAX_PARTICIPANTS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DIVEPLAN_MAX_PARTICIPANTS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DIVEPLAN_CONFIG",
		"DIVEPLAN_ENV_FILE",
		"DIVEPLAN_ADDR",
		"DIVEPLAN_LOCALE",
		"DIVEPLAN_LOG_LEVEL",
		"DIVEPLAN_MAX_PARTICIPANTS",
		"DIVEPLAN_METRICS_ENABLED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

// chdirTemp moves into a fresh directory so a stray .env is never picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// writeTempFile writes content under the current directory and returns its
// absolute path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(wd, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	return path
}
