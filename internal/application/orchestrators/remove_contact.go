package orchestrators

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// ExecuteRemoveContact removes a contact with all its emails and phones.
// PRE: Book, Firstname and Lastname are non-empty
// POST: the contact is gone from the store; a missing contact is a no-op
func ExecuteRemoveContact(ctx context.Context, input ContactRef, deps ContactDeps) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	return mutateContact(ctx, "contact_removed", input, deps, func(b *addressbook.AddressBook) error {
		return b.RemoveContact(input.Firstname, input.Lastname)
	})
}
