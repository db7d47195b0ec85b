package gateway

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	bookstore "github.com/nicolasdeu/Tact/internal/adapters/storage/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// FlatGateway persists books through a FlatStore, one record per contact
// with emails and phones pipe-joined. It backs the csv backend.
type FlatGateway struct {
	store   bookstore.FlatStore
	metrics *metrics.Metrics
}

// Compile-time check that *FlatGateway satisfies Gateway.
var _ Gateway = (*FlatGateway)(nil)

// NewFlatGateway creates a gateway over store. m may be nil.
func NewFlatGateway(store bookstore.FlatStore, m *metrics.Metrics) *FlatGateway {
	return &FlatGateway{store: store, metrics: m}
}

// Open loads book, or returns an empty book when no file exists.
func (g *FlatGateway) Open(ctx context.Context, book string) (*addressbook.AddressBook, error) {
	recs, err := g.store.LoadFlat(ctx, book)
	missing, err := openResult(g.metrics, book, err)
	if err != nil {
		return nil, err
	}
	if missing {
		return addressbook.New(book), nil
	}
	b, dropped := FromFlat(book, recs)
	logDropped(book, dropped)
	return b, nil
}

// Flush rewrites the whole book.
func (g *FlatGateway) Flush(ctx context.Context, b *addressbook.AddressBook) error {
	err := g.store.SaveFlat(ctx, b.Name(), ToFlat(b))
	return flushResult(g.metrics, b.Name(), b.ContactCount(), err)
}
