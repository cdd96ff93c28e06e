package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ddubrovin/jobtrack/internal/flagx"
	"github.com/ddubrovin/jobtrack/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be strings like "5m" or integer
// nanoseconds. Parsed values are copied into the runtime Config.
type JsonConfig struct {
	TableStoreDSN string         `json:"table_store_dsn"`
	SnapshotPath  string         `json:"snapshot_path"`
	StaleAfter    timex.Duration `json:"stale_after"`
	LogLevel      string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. When no file is named it is a no-op.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.TableStoreDSN != "" {
		cfg.TableStoreDSN = jc.TableStoreDSN
	}
	if jc.SnapshotPath != "" {
		cfg.SnapshotPath = jc.SnapshotPath
	}
	if jc.StaleAfter.Duration > 0 {
		cfg.StaleAfter = time.Duration(jc.StaleAfter.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
