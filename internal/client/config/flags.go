package config

import (
	"flag"
	"os"
	"time"

	"github.com/ddubrovin/jobtrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   DSN of the remote table store (default from Config)
//	-s string   path of the local snapshot database (default from Config)
//	-l string   log level (default from Config)
//	-i int      snapshot staleness threshold in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.TableStoreDSN, "d", cfg.TableStoreDSN, "table store DSN")
	fs.StringVar(&cfg.SnapshotPath, "s", cfg.SnapshotPath, "snapshot database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	staleAfter := fs.Int("i", int(cfg.StaleAfter.Seconds()), "snapshot staleness threshold (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.StaleAfter = time.Duration(*staleAfter) * time.Second
}
