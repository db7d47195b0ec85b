// Package bookcache keeps point-in-time snapshots of open address books for
// long-lived sessions such as the batch command.
//
// Callers always receive a private deep copy: mutating it never affects the
// cached snapshot or other callers until it is flushed.
package bookcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/nicolasdeu/Tact/internal/application/gateway"
	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// DefaultSize is the number of books kept when no size is configured.
const DefaultSize = 16

// Gateway decorates another gateway with an LRU of book snapshots.
// INVARIANT: at most one load or flush per book name reaches next at a time
type Gateway struct {
	next      gateway.Gateway
	snapshots *lru.Cache[string, *addressbook.AddressBook]
	loads     singleflight.Group

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Compile-time check that *Gateway satisfies gateway.Gateway.
var _ gateway.Gateway = (*Gateway)(nil)

// New wraps next, keeping up to size books.
// PRE: size > 0
func New(next gateway.Gateway, size int) (*Gateway, error) {
	snapshots, err := lru.New[string, *addressbook.AddressBook](size)
	if err != nil {
		return nil, fmt.Errorf("book cache: %w", err)
	}
	return &Gateway{
		next:      next,
		snapshots: snapshots,
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

// Open returns a copy of the cached snapshot of book, loading it through
// next on a miss. Concurrent misses for the same book share one load.
// POST: the returned book shares no storage with the cache
func (g *Gateway) Open(ctx context.Context, book string) (*addressbook.AddressBook, error) {
	if b, ok := g.snapshots.Get(book); ok {
		return b.Clone(), nil
	}
	v, err, shared := g.loads.Do(book, func() (any, error) {
		unlock := g.lock(book)
		defer unlock()
		if b, ok := g.snapshots.Get(book); ok {
			return b, nil
		}
		b, err := g.next.Open(ctx, book)
		if err != nil {
			return nil, err
		}
		g.snapshots.Add(book, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("cache_event", "event", "shared_load", "book", book)
	}
	return v.(*addressbook.AddressBook).Clone(), nil
}

// Flush writes b through next while holding the lock of its book.
// A successful flush replaces the snapshot with a copy of b; a failed one
// drops the snapshot so the next Open reloads from the store.
func (g *Gateway) Flush(ctx context.Context, b *addressbook.AddressBook) error {
	unlock := g.lock(b.Name())
	defer unlock()
	if err := g.next.Flush(ctx, b); err != nil {
		g.snapshots.Remove(b.Name())
		return err
	}
	g.snapshots.Add(b.Name(), b.Clone())
	return nil
}

// Len returns the number of cached books.
func (g *Gateway) Len() int { return g.snapshots.Len() }

func (g *Gateway) lock(book string) (unlock func()) {
	g.mu.Lock()
	l, ok := g.locks[book]
	if !ok {
		l = &sync.Mutex{}
		g.locks[book] = l
	}
	g.mu.Unlock()
	l.Lock()
	return l.Unlock
}
