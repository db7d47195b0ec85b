package orchestrators

import (
	"context"
	"log/slog"
)

// FindContactResult carries the rendered contact.
type FindContactResult struct {
	Found    bool
	Rendered string
}

// ExecuteFindContact looks a contact up by name.
// PRE: Book, Firstname and Lastname are non-empty
// POST: Rendered is empty when Found is false; the store is never written
func ExecuteFindContact(ctx context.Context, input ContactRef, deps ContactDeps) (FindContactResult, error) {
	if err := input.Validate(); err != nil {
		return FindContactResult{}, err
	}
	b, err := deps.Gateway.Open(ctx, input.Book)
	if err != nil {
		return FindContactResult{}, err
	}
	c, ok := b.FindContact(input.Firstname, input.Lastname)
	slog.Debug("contact_event", "event", "contact_lookup", "book", input.Book,
		"firstname", input.Firstname, "lastname", input.Lastname, "found", ok)
	if !ok {
		return FindContactResult{}, nil
	}
	return FindContactResult{Found: true, Rendered: c.Render()}, nil
}
