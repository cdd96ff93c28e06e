package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overlay(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"jobtrack", "-s", "/tmp/snap.db", "-i", "120", "-l", "warn"}
	defer func() { os.Args = origArgs }()

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, "/tmp/snap.db", c.SnapshotPath)
	assert.Equal(t, 2*time.Minute, c.StaleAfter)
	assert.Equal(t, "warn", c.LogLevel)
	// untouched flags keep defaults
	assert.Equal(t, "postgres://localhost:5432/jobtrack?sslmode=disable", c.TableStoreDSN)
}
