package orchestrators

import (
	"context"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
)

// ValueInput names a contact and one phone number or email address.
type ValueInput struct {
	ContactRef
	Value string
}

// ExecuteAddPhone appends a phone number to a contact.
// PRE: Book, Firstname and Lastname are non-empty
// POST: an invalid number is reported in Result.Rejected and not stored
func ExecuteAddPhone(ctx context.Context, input ValueInput, deps ContactDeps) (Result, error) {
	return mutateValue(ctx, "phone_added", input, deps, (*addressbook.AddressBook).AddContactPhone)
}

// ExecuteRemovePhone removes a phone number from a contact.
func ExecuteRemovePhone(ctx context.Context, input ValueInput, deps ContactDeps) (Result, error) {
	return mutateValue(ctx, "phone_removed", input, deps, (*addressbook.AddressBook).RemoveContactPhone)
}

// ExecuteAddEmail appends an email address to a contact.
// PRE: Book, Firstname and Lastname are non-empty
// POST: an invalid address is reported in Result.Rejected and not stored
func ExecuteAddEmail(ctx context.Context, input ValueInput, deps ContactDeps) (Result, error) {
	return mutateValue(ctx, "email_added", input, deps, (*addressbook.AddressBook).AddContactEmail)
}

// ExecuteRemoveEmail removes an email address from a contact.
func ExecuteRemoveEmail(ctx context.Context, input ValueInput, deps ContactDeps) (Result, error) {
	return mutateValue(ctx, "email_removed", input, deps, (*addressbook.AddressBook).RemoveContactEmail)
}

func mutateValue(ctx context.Context, event string, input ValueInput, deps ContactDeps, op func(b *addressbook.AddressBook, firstname, lastname, value string) error) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	return mutateContact(ctx, event, input.ContactRef, deps, func(b *addressbook.AddressBook) error {
		return op(b, input.Firstname, input.Lastname, input.Value)
	})
}
