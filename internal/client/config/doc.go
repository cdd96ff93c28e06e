// Package config loads runtime configuration for the jobtrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   DSN of the remote table store (Postgres)
//	-s string   path of the local snapshot database (SQLite)
//	-l string   log level (debug, info, warn, error)
//	-i int      snapshot staleness threshold (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5m" or integer nanoseconds:
//
//	{
//	  "table_store_dsn": "postgres://localhost/jobtrack",
//	  "snapshot_path": "jobtrack.db",
//	  "stale_after": "5m",
//	  "log_level": "info"
//	}
//
// Secrets (the JWT signing key, blob store credentials) come from the
// environment only and are never read from JSON or flags.
package config
