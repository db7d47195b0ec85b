package orchestrators

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/application/gateway"
)

// BookLister lists the books a store holds.
type BookLister interface {
	ListBooks(ctx context.Context) ([]string, error)
}

// ExecuteListBooks returns the names of all stored books in sorted order.
// POST: a store error is returned as a *gateway.StoreFailure
func ExecuteListBooks(ctx context.Context, lister BookLister) ([]string, error) {
	names, err := lister.ListBooks(ctx)
	if err != nil {
		return nil, &gateway.StoreFailure{Op: "list", Err: err}
	}
	return names, nil
}
