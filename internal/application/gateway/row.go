package gateway

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	bookstore "github.com/nicolasdeu/Tact/internal/adapters/storage/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// RowGateway persists books through a RowStore in the normalized form.
// It backs the sqlite and orm backends.
type RowGateway struct {
	store   bookstore.RowStore
	metrics *metrics.Metrics
}

// Compile-time check that *RowGateway satisfies Gateway.
var _ Gateway = (*RowGateway)(nil)

// NewRowGateway creates a gateway over store. m may be nil.
func NewRowGateway(store bookstore.RowStore, m *metrics.Metrics) *RowGateway {
	return &RowGateway{store: store, metrics: m}
}

// Open loads book. A book the store does not know yields an empty book.
// PRE: book is non-empty
// POST: on error the returned book is nil and the error is a *StoreFailure
func (g *RowGateway) Open(ctx context.Context, book string) (*addressbook.AddressBook, error) {
	rows, err := g.store.LoadRows(ctx, book)
	missing, err := openResult(g.metrics, book, err)
	if err != nil {
		return nil, err
	}
	if missing {
		return addressbook.New(book), nil
	}
	b, dropped := FromRows(book, rows)
	logDropped(book, dropped)
	return b, nil
}

// Flush hands every row of b to the store, which replaces the book in one
// transaction.
// POST: on error the stored book is unchanged
func (g *RowGateway) Flush(ctx context.Context, b *addressbook.AddressBook) error {
	err := g.store.SaveRows(ctx, b.Name(), ToRows(b))
	return flushResult(g.metrics, b.Name(), b.ContactCount(), err)
}
