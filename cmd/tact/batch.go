package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/shlex"

	"github.com/nicolasdeu/Tact/internal/application/bookcache"
	"github.com/nicolasdeu/Tact/internal/application/orchestrators"
)

// runBatch executes one command per input line against a shared book cache.
// Lines are split like a shell would; blank lines and # comments are
// skipped. A malformed line is reported and skipped; a storage failure
// stops the batch.
func runBatch(ctx context.Context, e *cmdEnv, args []string) (err error) {
	if e.gateway != nil {
		return usagef("batch cannot be nested")
	}
	if len(args) > 1 {
		return usagef("usage: tact batch [FILE]")
	}

	in := e.stdin
	if len(args) == 1 && args[0] != "-" {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return usagef("batch: %v", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		in = f
	}

	cache, err := bookcache.New(e.sess.gateway, e.cacheSize)
	if err != nil {
		return err
	}
	lineEnv := *e
	lineEnv.gateway = cache

	return execLines(ctx, &lineEnv, in)
}

func execLines(ctx context.Context, e *cmdEnv, in io.Reader) error {
	sc := bufio.NewScanner(in)
	var bad, n int
	for line := 1; sc.Scan(); line++ {
		words, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintf(e.stderr, "line %d: %v\n", line, err)
			bad++
			continue
		}
		if len(words) == 0 {
			continue
		}
		n++
		err = e.dispatch(ctx, words)
		var uerr *usageError
		switch {
		case err == nil:
		case errors.As(err, &uerr), errors.Is(err, orchestrators.ErrInvalidInput):
			fmt.Fprintf(e.stderr, "line %d: %v\n", line, err)
			bad++
		default:
			slog.Error("batch_event", "event", "aborted", "line", line, "error", err)
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	slog.Info("batch_event", "event", "done", "commands", n, "malformed", bad)
	if bad > 0 {
		return usagef("%d malformed line(s)", bad)
	}
	return nil
}
