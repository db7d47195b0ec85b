package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nicolasdeu/Tact/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvConfig, config.EnvHome, config.EnvBackend, config.EnvLogLevel,
		config.EnvLogFile, config.EnvSlowQueryMS, config.EnvMetricsFile,
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestLoad_Defaults tests that a data dir without a config file yields defaults.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("expected DataDir=%s, got %s", dir, cfg.DataDir)
	}
	if cfg.Backend != config.BackendSQLite {
		t.Errorf("expected backend sqlite, got %s", cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.LogPath() != filepath.Join(dir, "logs", "tact.log") {
		t.Errorf("unexpected log path %s", cfg.LogPath())
	}
	if cfg.SlowQuery() != 50*time.Millisecond {
		t.Errorf("unexpected slow query threshold %v", cfg.SlowQuery())
	}
}

// TestLoad_FileThenEnv tests precedence: file over defaults, env over file.
func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	writeFile(t, filepath.Join(dir, config.FileName), `
backend: csv
log_level: debug
log_format: json
slow_query_ms: 10
cache_size: 4
metrics_file: /tmp/tact.prom
`)
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvSlowQueryMS, "200")

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := config.Config{
		DataDir:     dir,
		Backend:     config.BackendCSV,
		LogLevel:    "warn",
		LogFormat:   "json",
		SlowQueryMS: 200,
		MetricsFile: "/tmp/tact.prom",
		CacheSize:   4,
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

// TestLoad_ExplicitPath tests --config and TACT_CONFIG handling.
func TestLoad_ExplicitPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	path := filepath.Join(dir, "other.yaml")
	writeFile(t, path, "backend: orm\n")

	cfg, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != config.BackendORM {
		t.Errorf("expected backend orm, got %s", cfg.Backend)
	}
	if cfg.DBPath() != filepath.Join(dir, "tact-orm.db") {
		t.Errorf("unexpected db path %s", cfg.DBPath())
	}

	t.Setenv(config.EnvConfig, filepath.Join(dir, "missing.yaml"))
	if _, err := config.Load("", ""); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

// TestLoad_BadYAML tests that a malformed file is reported.
func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	writeFile(t, filepath.Join(dir, config.FileName), "backend: [csv\n")

	if _, err := config.Load("", ""); err == nil {
		t.Error("expected parse error")
	}
}

// TestValidate tests rejection of bad values.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown backend", func(c *config.Config) { c.Backend = "mysql" }, "unknown backend"},
		{"unknown level", func(c *config.Config) { c.LogLevel = "loud" }, "unknown log_level"},
		{"unknown format", func(c *config.Config) { c.LogFormat = "xml" }, "unknown log_format"},
		{"zero slow query", func(c *config.Config) { c.SlowQueryMS = 0 }, "slow_query_ms"},
		{"negative cache", func(c *config.Config) { c.CacheSize = -1 }, "cache_size"},
		{"empty data dir", func(c *config.Config) { c.DataDir = "" }, "data_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

// TestLoad_DataDirOverride tests that an explicit data dir locates the config file and wins over env.
func TestLoad_DataDirOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvHome, t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), "backend: csv\ndata_dir: /elsewhere\n")

	cfg, err := config.Load("", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("expected DataDir=%s, got %s", dir, cfg.DataDir)
	}
	if cfg.Backend != config.BackendCSV {
		t.Errorf("expected backend csv, got %s", cfg.Backend)
	}
	if cfg.CSVDir() != filepath.Join(dir, "csv") {
		t.Errorf("unexpected csv dir %s", cfg.CSVDir())
	}
}
