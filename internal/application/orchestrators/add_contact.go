package orchestrators

import (
	"context"
	"errors"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/validate"
)

// AddContactInput carries input for the orchestrator.
type AddContactInput struct {
	ContactRef
	MailingAddress string
	Emails         []string
	Phones         []string
}

// ExecuteAddContact adds a contact to a book, creating the book if needed.
// Invalid emails and phones are dropped and listed in Result.Rejected;
// empty ones are dropped silently.
// PRE: Book, Firstname and Lastname are non-empty
// POST: a new contact is flushed; an existing contact is left untouched
// INVARIANT: first write wins for a given firstname and lastname
func ExecuteAddContact(ctx context.Context, input AddContactInput, deps ContactDeps) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	var rejected []*validate.Error
	collect := func(values []string, check func(string) error) {
		for _, v := range values {
			if v == "" {
				continue
			}
			var verr *validate.Error
			if errors.As(check(v), &verr) {
				rejected = append(rejected, verr)
			}
		}
	}
	collect(input.Emails, validate.Email)
	collect(input.Phones, validate.Phone)

	res, err := mutateContact(ctx, "contact_added", input.ContactRef, deps, func(b *addressbook.AddressBook) error {
		_, err := b.AddContact(input.Firstname, input.Lastname, input.MailingAddress, input.Emails, input.Phones)
		return err
	})
	if err != nil || !res.Changed {
		return res, err
	}
	for _, r := range rejected {
		deps.Metrics.CountRejected(r.Field)
	}
	res.Rejected = rejected
	return res, nil
}
