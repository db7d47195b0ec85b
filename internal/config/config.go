// Package config resolves tact settings from defaults, an optional YAML file
// and TACT_* environment variables, in that order of precedence (lowest
// first). Command-line flags are applied on top by cmd/tact.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendORM    = "orm"
	BackendCSV    = "csv"
)

// Environment variables read by Load.
const (
	EnvConfig      = "TACT_CONFIG"
	EnvHome        = "TACT_HOME"
	EnvBackend     = "TACT_BACKEND"
	EnvLogLevel    = "TACT_LOG_LEVEL"
	EnvLogFile     = "TACT_LOG_FILE"
	EnvSlowQueryMS = "TACT_SLOW_QUERY_MS"
	EnvMetricsFile = "TACT_METRICS_FILE"
)

// FileName is the config file looked up in the data directory.
const FileName = "tact.yaml"

// LogFileStderr sends logs to standard error instead of a file.
const LogFileStderr = "-"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of a tact invocation.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	Backend     string `yaml:"backend"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	LogFormat   string `yaml:"log_format"`
	SlowQueryMS int    `yaml:"slow_query_ms"`
	MetricsFile string `yaml:"metrics_file"`
	CacheSize   int    `yaml:"cache_size"`
}

// Default returns the built-in settings. The data directory is ~/.tact,
// or ./.tact when the home directory is unknown.
func Default() Config {
	dir := ".tact"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".tact")
	}
	return Config{
		DataDir:     dir,
		Backend:     BackendSQLite,
		LogLevel:    "info",
		LogFormat:   "console",
		SlowQueryMS: 50,
		CacheSize:   16,
	}
}

// Load builds the configuration. path names the YAML file; when empty,
// $TACT_CONFIG is used, then <data dir>/tact.yaml if it exists. A non-empty
// dataDir takes precedence over the file and $TACT_HOME.
// PRE: none
// POST: the returned config has every env override applied; it is not validated
func Load(path, dataDir string) (Config, error) {
	cfg := Default()
	cfg.DataDir = envOrDefault(EnvHome, cfg.DataDir)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(cfg.DataDir, FileName)
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataDir = envOrDefault(EnvHome, c.DataDir)
	c.Backend = envOrDefault(EnvBackend, c.Backend)
	c.LogLevel = envOrDefault(EnvLogLevel, c.LogLevel)
	c.LogFile = envOrDefault(EnvLogFile, c.LogFile)
	c.MetricsFile = envOrDefault(EnvMetricsFile, c.MetricsFile)
	c.SlowQueryMS = envInt(EnvSlowQueryMS, c.SlowQueryMS)
}

// Validate rejects unknown backends, levels and formats and non-positive sizes.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	switch c.Backend {
	case BackendSQLite, BackendORM, BackendCSV:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if c.SlowQueryMS <= 0 {
		errs = append(errs, fmt.Errorf("slow_query_ms must be positive, got %d", c.SlowQueryMS))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SlowQuery returns the slow query threshold.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// LogPath returns the log destination: LogFileStderr, LogFile, or
// <data dir>/logs/tact.log when unset.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "logs", "tact.log")
}

// DBPath returns the database file of the SQL backends. The ORM backend uses
// its own file so the two schemas never meet.
func (c Config) DBPath() string {
	if c.Backend == BackendORM {
		return filepath.Join(c.DataDir, "tact-orm.db")
	}
	return filepath.Join(c.DataDir, "tact.db")
}

// CSVDir returns the directory holding one CSV file per book.
func (c Config) CSVDir() string {
	return filepath.Join(c.DataDir, "csv")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
