package config

import (
	"time"

	"github.com/ddubrovin/jobtrack/internal/remote/blobstore"
)

// Config holds runtime settings for the jobtrack CLI.
type Config struct {
	// TableStoreDSN is the Postgres DSN of the remote table store.
	TableStoreDSN string
	// SnapshotPath is the SQLite file holding the local snapshot slots.
	SnapshotPath string
	// StaleAfter is how old the snapshot may be before a session start
	// schedules a background refresh.
	StaleAfter time.Duration
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// JWTSecret signs access tokens.
	JWTSecret string
	// AccessTTL / RefreshTTL bound token lifetimes.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Blob carries the S3-compatible blob store settings.
	Blob blobstore.Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.TableStoreDSN = "postgres://localhost:5432/jobtrack?sslmode=disable"
	c.SnapshotPath = "jobtrack.db"
	c.StaleAfter = 5 * time.Minute
	c.LogLevel = "info"
	c.AccessTTL = 15 * time.Minute
	c.RefreshTTL = 720 * time.Hour
	c.Blob = blobstore.Config{
		Endpoint: "http://localhost:9000",
		Region:   "us-east-1",
		Bucket:   "jobtrack-attachments",
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
