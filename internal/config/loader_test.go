package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/handicap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("HANDICAP_DOTENV", "/non/existent/.env")
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataFile, convey.ShouldEqual, "data/handicap.json")
				convey.So(cfg.MaxGames, convey.ShouldEqual, 28)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HANDICAP_ADDR", ":8080")
			_ = os.Setenv("HANDICAP_S3_BUCKET", "bdsl")
			_ = os.Setenv("HANDICAP_MAX_GAMES", "20")
			_ = os.Setenv("HANDICAP_TEAMS", "East,Premier,Shorts")
			_ = os.Setenv("HANDICAP_LOG_JSON", "true")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.S3Bucket, convey.ShouldEqual, "bdsl")
				convey.So(cfg.RemoteEnabled(), convey.ShouldBeTrue)
				convey.So(cfg.MaxGames, convey.ShouldEqual, 20)
				convey.So(cfg.Teams, convey.ShouldResemble, []string{"East", "Premier", "Shorts"})
				convey.So(cfg.LogJSON, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
admin_pin: "4321"
season_start: "2026-01-08"
season_weeks: 14
teams:
  - East
  - Premier
`)
			_ = os.Setenv("HANDICAP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.AdminPIN, convey.ShouldEqual, "4321")
				convey.So(cfg.SeasonWeeks, convey.ShouldEqual, 14)
				convey.So(cfg.Teams, convey.ShouldResemble, []string{"East", "Premier"})
				convey.So(cfg.MaxGames, convey.ShouldEqual, 28) // from defaults
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("HANDICAP_ADDR", ":7070")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.SeasonWeeks, convey.ShouldEqual, 14)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("HANDICAP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFile(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("HANDICAP_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("HANDICAP_MAX_GAMES", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When list keys come from the environment", func() {
			_ = os.Setenv("HANDICAP_TEAMS", " East , Premier,,QE2 A ")
			_ = os.Setenv("HANDICAP_CORS_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.LoadFile(ctx, "")

			convey.Convey("Then each comma-separated item is one entry", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Teams, convey.ShouldResemble, []string{"East", "Premier", "QE2 A"})
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When a fixtures file is set without a team list", func() {
			_ = os.Setenv("HANDICAP_FIXTURES_FILE", "fixtures.yaml")

			cfg, err := config.LoadFile(ctx, "")

			convey.Convey("Then the default teams are dropped in favour of the file's", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Teams, convey.ShouldBeEmpty)
			})

			convey.Convey("And an explicit team list still wins", func() {
				_ = os.Setenv("HANDICAP_TEAMS", "East,Premier")

				cfg, err := config.LoadFile(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Teams, convey.ShouldResemble, []string{"East", "Premier"})
			})
		})

		convey.Convey("When a .env file provides the admin PIN", func() {
			dotenv := createTempConfigFile(t, "HANDICAP_ADMIN_PIN=2468\n")
			_ = os.Setenv("HANDICAP_DOTENV", dotenv)

			cfg, err := config.Load(ctx)

			convey.Convey("Then the value reaches the config", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AdminPIN, convey.ShouldEqual, "2468")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"HANDICAP_CONFIG",
		"HANDICAP_DOTENV",
		"HANDICAP_ADDR",
		"HANDICAP_S3_BUCKET",
		"HANDICAP_MAX_GAMES",
		"HANDICAP_TEAMS",
		"HANDICAP_CORS_ORIGINS",
		"HANDICAP_FIXTURES_FILE",
		"HANDICAP_LOG_JSON",
		"HANDICAP_ADMIN_PIN",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "handicap-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
