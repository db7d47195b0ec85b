// Package gateway loads address books from a store driver and writes them
// back. Two shapes exist: RowGateway speaks the normalized one-row-per-value
// form used by the SQL backends, FlatGateway the one-row-per-contact form used
// by CSV files.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	"github.com/nicolasdeu/Tact/internal/adapters/storage"
	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// Operation names used in StoreFailure and metrics.
const (
	OpOpen  = "open"
	OpFlush = "flush"
)

// ErrStoreFailure matches every *StoreFailure with errors.Is.
var ErrStoreFailure = errors.New("address book storage failure")

// Gateway opens and flushes whole address books.
type Gateway interface {
	// Open returns the stored book, or an empty book when none is stored.
	Open(ctx context.Context, book string) (*addressbook.AddressBook, error)
	// Flush replaces the stored copy of b with its current state.
	Flush(ctx context.Context, b *addressbook.AddressBook) error
}

// StoreFailure reports that the underlying store could not be read or written.
type StoreFailure struct {
	Op   string
	Book string
	Err  error
}

func (e *StoreFailure) Error() string {
	return fmt.Sprintf("%s address book %q: %v", e.Op, e.Book, e.Err)
}

func (e *StoreFailure) Unwrap() error { return e.Err }

// Is reports whether target is ErrStoreFailure.
func (e *StoreFailure) Is(target error) bool { return target == ErrStoreFailure }

// openResult classifies a load error, counts the operation and wraps
// anything but a missing book.
// POST: returns (true, nil) for a missing book, (false, *StoreFailure) for other errors
func openResult(m *metrics.Metrics, book string, err error) (missing bool, _ error) {
	switch {
	case err == nil:
		m.CountGatewayOp(OpOpen, metrics.OutcomeOK)
		return false, nil
	case errors.Is(err, storage.ErrBookNotFound):
		m.CountGatewayOp(OpOpen, metrics.OutcomeNotFound)
		slog.Debug("book_event", "event", "open_missing", "book", book)
		return true, nil
	default:
		m.CountGatewayOp(OpOpen, metrics.OutcomeError)
		slog.Error("book_event", "event", "open_failed", "book", book, "error", err)
		return false, &StoreFailure{Op: OpOpen, Book: book, Err: err}
	}
}

func flushResult(m *metrics.Metrics, book string, contacts int, err error) error {
	if err != nil {
		m.CountGatewayOp(OpFlush, metrics.OutcomeError)
		slog.Error("book_event", "event", "flush_failed", "book", book, "error", err)
		return &StoreFailure{Op: OpFlush, Book: book, Err: err}
	}
	m.CountGatewayOp(OpFlush, metrics.OutcomeOK)
	slog.Debug("book_event", "event", "flushed", "book", book, "contacts", contacts)
	return nil
}

func logDropped(book string, dropped []error) {
	for _, err := range dropped {
		slog.Warn("book_event", "event", "stored_value_dropped", "book", book, "error", err)
	}
}
