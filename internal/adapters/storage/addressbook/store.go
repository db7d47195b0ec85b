package addressbook

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/domain/record"
)

// RowStore persists address books in the normalized one-row-per-value form.
// Both methods return storage.ErrBookNotFound (wrapped) for unknown books on load.
type RowStore interface {
	LoadRows(ctx context.Context, book string) ([]record.Row, error)
	SaveRows(ctx context.Context, book string, rows []record.Row) error
}

// FlatStore persists address books in the one-row-per-contact form.
type FlatStore interface {
	LoadFlat(ctx context.Context, book string) ([]record.Flat, error)
	SaveFlat(ctx context.Context, book string, recs []record.Flat) error
}

// contactRows gathers the rows of one contact.
type contactRows struct {
	Firstname      string
	Lastname       string
	MailingAddress string
	Phones         []string
	Emails         []string
}

// groupRows folds normalized rows back into one entry per contact, keeping
// the order in which contacts and values first appear.
func groupRows(rows []record.Row) []*contactRows {
	type key struct{ first, last string }
	var out []*contactRows
	seen := make(map[key]*contactRows)
	for _, r := range rows {
		k := key{r.Firstname, r.Lastname}
		c, ok := seen[k]
		if !ok {
			c = &contactRows{Firstname: r.Firstname, Lastname: r.Lastname, MailingAddress: r.MailingAddress}
			seen[k] = c
			out = append(out, c)
		}
		if r.Phone != nil {
			c.Phones = append(c.Phones, *r.Phone)
		}
		if r.Email != nil {
			c.Emails = append(c.Emails, *r.Email)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }
