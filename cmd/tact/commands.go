package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	"github.com/nicolasdeu/Tact/internal/application/gateway"
	"github.com/nicolasdeu/Tact/internal/application/orchestrators"
)

// cmdEnv is what a command runs against.
type cmdEnv struct {
	sess      *session
	gateway   gateway.Gateway // overrides sess.gateway when set
	metrics   *metrics.Metrics
	cacheSize int
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

func (e *cmdEnv) deps() orchestrators.ContactDeps {
	gw := e.gateway
	if gw == nil {
		gw = e.sess.gateway
	}
	return orchestrators.ContactDeps{Gateway: gw, Metrics: e.metrics}
}

// usageError is a malformed command line.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, e *cmdEnv, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"add", "add BOOK FIRST LAST [-m ADDRESS] [-e EMAIL]... [-p PHONE]...", runAdd},
		{"find", "find BOOK FIRST LAST", runFind},
		{"remove", "remove BOOK FIRST LAST", runRemove},
		{"add-phone", "add-phone BOOK FIRST LAST PHONE", valueCommand(orchestrators.ExecuteAddPhone)},
		{"remove-phone", "remove-phone BOOK FIRST LAST PHONE", valueCommand(orchestrators.ExecuteRemovePhone)},
		{"add-email", "add-email BOOK FIRST LAST EMAIL", valueCommand(orchestrators.ExecuteAddEmail)},
		{"remove-email", "remove-email BOOK FIRST LAST EMAIL", valueCommand(orchestrators.ExecuteRemoveEmail)},
		{"books", "books", runBooks},
		{"batch", "batch [FILE]", runBatch},
	}
}

// dispatch runs the command named by args[0].
func (e *cmdEnv) dispatch(ctx context.Context, args []string) error {
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, e, args[1:])
		}
	}
	return usagef("unknown command %q", args[0])
}

// exitCode reports err on w and maps it to a process exit code.
func exitCode(w io.Writer, err error) int {
	var uerr *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &uerr), errors.Is(err, orchestrators.ErrInvalidInput):
		fmt.Fprintf(w, "tact: %v\n", err)
		printUsage(w)
		return exitUsage
	case errors.Is(err, gateway.ErrStoreFailure):
		fmt.Fprintln(w, storageFailureMsg)
		return exitFailure
	default:
		slog.Error("command_failed", "error", err)
		fmt.Fprintf(w, "tact: %v\n", err)
		return exitFailure
	}
}

func contactRef(name string, args []string) (orchestrators.ContactRef, error) {
	if len(args) != 3 {
		return orchestrators.ContactRef{}, usagef("usage: tact %s BOOK FIRST LAST", name)
	}
	return orchestrators.ContactRef{Book: args[0], Firstname: args[1], Lastname: args[2]}, nil
}

func (e *cmdEnv) reportRejected(res orchestrators.Result) {
	for _, r := range res.Rejected {
		fmt.Fprintln(e.stderr, r.Error())
	}
}

// listFlag collects repeated string flags.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func runAdd(ctx context.Context, e *cmdEnv, args []string) error {
	if len(args) < 3 {
		return usagef("usage: tact add BOOK FIRST LAST [-m ADDRESS] [-e EMAIL]... [-p PHONE]...")
	}
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	address := fs.String("m", "", "mailing address")
	var emails, phones listFlag
	fs.Var(&emails, "e", "email address (repeatable)")
	fs.Var(&phones, "p", "phone number (repeatable)")
	if err := fs.Parse(args[3:]); err != nil {
		return usagef("add: %v", err)
	}
	if fs.NArg() > 0 {
		return usagef("add: unexpected argument %q", fs.Arg(0))
	}

	res, err := orchestrators.ExecuteAddContact(ctx, orchestrators.AddContactInput{
		ContactRef:     orchestrators.ContactRef{Book: args[0], Firstname: args[1], Lastname: args[2]},
		MailingAddress: *address,
		Emails:         emails,
		Phones:         phones,
	}, e.deps())
	if err != nil {
		return err
	}
	e.reportRejected(res)
	return nil
}

func runFind(ctx context.Context, e *cmdEnv, args []string) error {
	ref, err := contactRef("find", args)
	if err != nil {
		return err
	}
	res, err := orchestrators.ExecuteFindContact(ctx, ref, e.deps())
	if err != nil {
		return err
	}
	fmt.Fprint(e.stdout, res.Rendered)
	return nil
}

func runRemove(ctx context.Context, e *cmdEnv, args []string) error {
	ref, err := contactRef("remove", args)
	if err != nil {
		return err
	}
	_, err = orchestrators.ExecuteRemoveContact(ctx, ref, e.deps())
	return err
}

type valueExecutor func(context.Context, orchestrators.ValueInput, orchestrators.ContactDeps) (orchestrators.Result, error)

func valueCommand(exec valueExecutor) func(context.Context, *cmdEnv, []string) error {
	return func(ctx context.Context, e *cmdEnv, args []string) error {
		if len(args) != 4 {
			return usagef("expected BOOK FIRST LAST VALUE, got %d arguments", len(args))
		}
		res, err := exec(ctx, orchestrators.ValueInput{
			ContactRef: orchestrators.ContactRef{Book: args[0], Firstname: args[1], Lastname: args[2]},
			Value:      args[3],
		}, e.deps())
		if err != nil {
			return err
		}
		e.reportRejected(res)
		return nil
	}
}

func runBooks(ctx context.Context, e *cmdEnv, args []string) error {
	if len(args) != 0 {
		return usagef("usage: tact books")
	}
	names, err := orchestrators.ExecuteListBooks(ctx, e.sess.lister)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(e.stdout, n)
	}
	return nil
}
