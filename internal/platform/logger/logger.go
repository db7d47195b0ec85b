// Package logger builds the process-wide slog.Logger on top of zap.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Stderr is the Path value that sends logs to standard error.
const Stderr = "-"

// Options selects where and how records are written.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // console or json
	Path   string // file path, or Stderr
}

// New returns a slog.Logger backed by a zap core. The returned func flushes
// buffered records and closes the log file; call it before exit.
// PRE: opts.Level parses as a zap level
// POST: parent directories of opts.Path exist
func New(opts Options) (*slog.Logger, func(), error) {
	level, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	switch opts.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	sink := "stderr"
	if opts.Path != "" && opts.Path != Stderr {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log directory: %w", err)
		}
		sink = opts.Path
	}
	ws, closeSink, err := zap.Open(sink)
	if err != nil {
		return nil, nil, fmt.Errorf("open log sink: %w", err)
	}

	core := zapcore.NewCore(enc, ws, level)
	flush := func() {
		_ = core.Sync()
		closeSink()
	}
	return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(false))), flush, nil
}
