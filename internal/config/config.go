// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"

	"github.com/okian/handicap/internal/domain/model"
)

// SeasonDateLayout is the layout of season_start.
const SeasonDateLayout = "2006-01-02"

// DefaultTeams is the league's team list for the current season.
var DefaultTeams = []string{
	"Ballygomartin A", "Ballygomartin B", "Ballygomartin C",
	"East", "Premier", "QE2 A", "QE2 B", "Shorts",
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataFile is the local JSON document. It is the only store when no
	// bucket is configured, otherwise the fallback behind the bucket.
	DataFile string `koanf:"data_file"`

	// S3 settings for the remote document (AWS S3 or an S3-compatible
	// service such as Cloudflare R2). Empty bucket disables the remote store.
	S3Bucket          string `koanf:"s3_bucket"`
	S3Key             string `koanf:"s3_key"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3Region          string `koanf:"s3_region"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`

	// AdminPIN is the shared secret for mutations. AdminPINHash takes
	// precedence when both are set and holds a bcrypt hash.
	AdminPIN     string `koanf:"admin_pin"`
	AdminPINHash string `koanf:"admin_pin_hash"`

	// AdminRatePerMinute and AdminBurst bound admin requests per client IP.
	AdminRatePerMinute int `koanf:"admin_rate_per_minute"`
	AdminBurst         int `koanf:"admin_burst"`

	// FixturesFile points at a YAML fixture list. Empty means generate a
	// round robin over Teams.
	FixturesFile string `koanf:"fixtures_file"`

	// SeasonStart is the first fixture date (YYYY-MM-DD), weekly after that.
	SeasonStart string `koanf:"season_start"`

	// SeasonWeeks is the number of generated fixture weeks.
	SeasonWeeks int `koanf:"season_weeks"`

	// Teams is the enumerated team set players may belong to. When a
	// fixtures file is loaded without an explicit teams key, the loader
	// clears it so the file's teams are used.
	Teams []string `koanf:"teams"`

	// MaxGames caps a player's recorded results for the season.
	MaxGames int `koanf:"max_games"`

	// AnnouncementTTLDays is how long an announcement stays active.
	AnnouncementTTLDays int `koanf:"announcement_ttl_days"`

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// IdempotencyKeys bounds the remembered Idempotency-Key values.
	IdempotencyKeys int `koanf:"idempotency_keys"`
}

// New creates a Config populated with defaults.
func New() *Config {
	teams := make([]string, len(DefaultTeams))
	copy(teams, DefaultTeams)
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DataFile:            "data/handicap.json",
		S3Key:               "handicap.json",
		S3Region:            "auto",
		AdminRatePerMinute:  30,
		AdminBurst:          5,
		SeasonStart:         "2025-09-04",
		SeasonWeeks:         28,
		Teams:               teams,
		MaxGames:            28,
		AnnouncementTTLDays: 7,
		IdempotencyKeys:     1024,
	}
}

// SeasonStartDate parses SeasonStart.
func (c *Config) SeasonStartDate() (time.Time, error) {
	t, err := time.Parse(SeasonDateLayout, c.SeasonStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: season_start %q: %w", ErrInvalidConfig, c.SeasonStart, err)
	}
	return t, nil
}

// AnnouncementTTL returns the announcement lifetime as a duration.
func (c *Config) AnnouncementTTL() time.Duration {
	return time.Duration(c.AnnouncementTTLDays) * 24 * time.Hour
}

// RemoteEnabled reports whether the S3 document store is configured.
func (c *Config) RemoteEnabled() bool {
	return c.S3Bucket != ""
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataFile == "" && !c.RemoteEnabled():
		return fmt.Errorf("%w: data_file or s3_bucket is required", ErrInvalidConfig)
	case c.RemoteEnabled() && c.S3Key == "":
		return fmt.Errorf("%w: s3_key must not be empty", ErrInvalidConfig)
	case c.MaxGames <= 0:
		return fmt.Errorf("%w: max_games must be positive", ErrInvalidConfig)
	case c.SeasonWeeks <= 0 || c.SeasonWeeks > model.SeasonWeeks:
		return fmt.Errorf("%w: season_weeks must be within 1..%d", ErrInvalidConfig, model.SeasonWeeks)
	case c.AnnouncementTTLDays <= 0:
		return fmt.Errorf("%w: announcement_ttl_days must be positive", ErrInvalidConfig)
	case len(c.Teams) < 2 && c.FixturesFile == "":
		return fmt.Errorf("%w: at least two teams are required", ErrInvalidConfig)
	}
	if _, err := c.SeasonStartDate(); err != nil {
		return err
	}
	return nil
}
