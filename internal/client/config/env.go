package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is a DTO used exclusively for environment parsing. Every field
// is optional; only set variables overlay the Config.
type envConfig struct {
	TableStoreDSN string        `env:"JOBTRACK_TABLE_STORE_DSN"`
	SnapshotPath  string        `env:"JOBTRACK_SNAPSHOT_PATH"`
	StaleAfter    time.Duration `env:"JOBTRACK_STALE_AFTER"`
	LogLevel      string        `env:"JOBTRACK_LOG_LEVEL"`

	JWTSecret  string        `env:"JOBTRACK_JWT_SECRET"`
	AccessTTL  time.Duration `env:"JOBTRACK_ACCESS_TTL"`
	RefreshTTL time.Duration `env:"JOBTRACK_REFRESH_TTL"`

	BlobEndpoint  string `env:"JOBTRACK_BLOB_ENDPOINT"`
	BlobRegion    string `env:"JOBTRACK_BLOB_REGION"`
	BlobBucket    string `env:"JOBTRACK_BLOB_BUCKET"`
	BlobAccessKey string `env:"JOBTRACK_BLOB_ACCESS_KEY"`
	BlobSecretKey string `env:"JOBTRACK_BLOB_SECRET_KEY"`
}

// parseEnv overlays cfg with values from the process environment. A .env
// file in the working directory is loaded first when present; already-set
// variables win over the file.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if ec.TableStoreDSN != "" {
		cfg.TableStoreDSN = ec.TableStoreDSN
	}
	if ec.SnapshotPath != "" {
		cfg.SnapshotPath = ec.SnapshotPath
	}
	if ec.StaleAfter > 0 {
		cfg.StaleAfter = ec.StaleAfter
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
	if ec.JWTSecret != "" {
		cfg.JWTSecret = ec.JWTSecret
	}
	if ec.AccessTTL > 0 {
		cfg.AccessTTL = ec.AccessTTL
	}
	if ec.RefreshTTL > 0 {
		cfg.RefreshTTL = ec.RefreshTTL
	}
	if ec.BlobEndpoint != "" {
		cfg.Blob.Endpoint = ec.BlobEndpoint
	}
	if ec.BlobRegion != "" {
		cfg.Blob.Region = ec.BlobRegion
	}
	if ec.BlobBucket != "" {
		cfg.Blob.Bucket = ec.BlobBucket
	}
	if ec.BlobAccessKey != "" {
		cfg.Blob.AccessKey = ec.BlobAccessKey
	}
	if ec.BlobSecretKey != "" {
		cfg.Blob.SecretKey = ec.BlobSecretKey
	}
	return nil
}
