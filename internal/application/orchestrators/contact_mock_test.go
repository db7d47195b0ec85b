package orchestrators

import (
	"context"
	"errors"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// mockGateway implements gateway.Gateway for testing.
type mockGateway struct {
	books    map[string]*addressbook.AddressBook
	flushes  int
	openErr  error
	flushErr error
}

func newMockGateway() *mockGateway {
	return &mockGateway{books: make(map[string]*addressbook.AddressBook)}
}

// Open implements gateway.Gateway.
// POST: returns a copy of the stored book or an empty book
func (m *mockGateway) Open(_ context.Context, book string) (*addressbook.AddressBook, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	if b, ok := m.books[book]; ok {
		return b.Clone(), nil
	}
	return addressbook.New(book), nil
}

// Flush implements gateway.Gateway.
func (m *mockGateway) Flush(_ context.Context, b *addressbook.AddressBook) error {
	if m.flushErr != nil {
		return m.flushErr
	}
	m.flushes++
	m.books[b.Name()] = b.Clone()
	return nil
}

// render returns the rendered contents of a stored book.
func (m *mockGateway) render(book string) string {
	b, ok := m.books[book]
	if !ok {
		return ""
	}
	var out string
	for _, c := range b.Contacts() {
		out += c.Render()
	}
	return out
}

type mockLister struct {
	names []string
	err   error
}

func (m mockLister) ListBooks(context.Context) ([]string, error) { return m.names, m.err }

var errDiskGone = errors.New("disk gone")
