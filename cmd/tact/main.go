// Command tact manages address books from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	"github.com/nicolasdeu/Tact/internal/config"
	"github.com/nicolasdeu/Tact/internal/platform/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const storageFailureMsg = "could not access address book storage"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one tact invocation and returns its exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tact", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	configPath := fs.String("config", "", "YAML configuration file")
	backend := fs.String("backend", "", "storage backend: sqlite, orm or csv")
	dataDir := fs.String("data-dir", "", "directory holding books, logs and config")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "tact %s\n", version)
		return exitOK
	}
	if fs.NArg() == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		fmt.Fprintf(stderr, "tact: %v\n", err)
		return exitUsage
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "tact: %v\n", err)
		return exitUsage
	}

	log, flush, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: cfg.LogPath()})
	if err != nil {
		fmt.Fprintf(stderr, "tact: %v\n", err)
		return exitFailure
	}
	defer flush()
	slog.SetDefault(log)

	m := metrics.New()
	defer func() {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			slog.Warn("metrics_event", "event", "textfile_failed", "path", cfg.MetricsFile, "error", err)
		}
	}()

	ctx := context.Background()
	sess, err := openSession(cfg, m)
	if err != nil {
		slog.Error("storage_event", "event", "open_failed", "backend", cfg.Backend, "error", err)
		fmt.Fprintln(stderr, storageFailureMsg)
		return exitFailure
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Warn("storage_event", "event", "close_failed", "backend", cfg.Backend, "error", err)
		}
	}()
	slog.Debug("storage_event", "event", "opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	env := &cmdEnv{
		sess:      sess,
		metrics:   m,
		cacheSize: cfg.CacheSize,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
	}
	return exitCode(stderr, env.dispatch(ctx, fs.Args()))
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: tact [--config FILE] [--backend sqlite|orm|csv] [--data-dir DIR] [--log-level LEVEL] <command> ...
       tact --version

commands:
`)
	for _, c := range commands {
		fmt.Fprintf(w, "  tact %s\n", c.usage)
	}
}
