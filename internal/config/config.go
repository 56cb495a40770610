// Package config loads retrograde settings from the config file, RETROGRADE_*
// environment variables and command-line flags through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "RETROGRADE"

// DefaultTable is the SQL table name used when none is configured.
const DefaultTable = "retrograde_table"

// EnvKeyReplacer maps nested keys such as "sqlite.table" to env names like
// RETROGRADE_SQLITE_TABLE.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// SQLiteConfig holds settings for the sqlite output mode.
type SQLiteConfig struct {
	Table    string `mapstructure:"table"`
	Database string `mapstructure:"database"` // optional database file to load the script into
}

// WatchConfig holds settings for --watch.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration for a retrograde run.
// Values are populated from .retrograde.yaml, RETROGRADE_* env vars, and CLI flags.
type Config struct {
	Verbose bool         `mapstructure:"verbose"`
	Log     LogConfig    `mapstructure:"log"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Watch   WatchConfig  `mapstructure:"watch"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("sqlite.table", DefaultTable)
	viper.SetDefault("sqlite.database", "")
	viper.SetDefault("watch.debounce", 200*time.Millisecond)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	// An explicitly empty table (--table "") falls back to the default, so
	// the rendered script and the database load agree on one name.
	if strings.TrimSpace(cfg.SQLite.Table) == "" {
		cfg.SQLite.Table = DefaultTable
	}
	return cfg, nil
}
