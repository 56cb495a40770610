package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Verbose", cfg.Verbose, false},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"SQLite.Table", cfg.SQLite.Table, "retrograde_table"},
		{"SQLite.Database", cfg.SQLite.Database, ""},
		{"Watch.Debounce", cfg.Watch.Debounce, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "sqlite.table",
			envKey: "RETROGRADE_SQLITE_TABLE",
			envVal: "planets",
			field:  func(c Config) any { return c.SQLite.Table },
			want:   "planets",
		},
		{
			name:   "sqlite.database",
			envKey: "RETROGRADE_SQLITE_DATABASE",
			envVal: "/tmp/retro.db",
			field:  func(c Config) any { return c.SQLite.Database },
			want:   "/tmp/retro.db",
		},
		{
			name:   "watch.debounce",
			envKey: "RETROGRADE_WATCH_DEBOUNCE",
			envVal: "1s",
			field:  func(c Config) any { return c.Watch.Debounce },
			want:   time.Second,
		},
		{
			name:   "log.format",
			envKey: "RETROGRADE_LOG_FORMAT",
			envVal: "json",
			field:  func(c Config) any { return c.Log.Format },
			want:   "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("RETROGRADE")
			viper.SetEnvKeyReplacer(EnvKeyReplacer)
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_VerboseForcesDebug(t *testing.T) {
	resetViper()
	viper.Set("verbose", true)
	viper.Set("log.level", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".retrograde.yaml")
	content := "sqlite:\n  table: bodies\nwatch:\n  debounce: 750ms\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.SQLite.Table != "bodies" {
		t.Errorf("SQLite.Table = %q, want bodies", cfg.SQLite.Table)
	}
	if cfg.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 750ms", cfg.Watch.Debounce)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoad_EmptyTableFallsBack(t *testing.T) {
	resetViper()
	viper.Set("sqlite.table", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.SQLite.Table != DefaultTable {
		t.Errorf("SQLite.Table = %q, want %q", cfg.SQLite.Table, DefaultTable)
	}
}
