package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	"github.com/nicolasdeu/Tact/internal/application/gateway"
	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/validate"
)

// ErrInvalidInput is returned when a required argument is empty.
var ErrInvalidInput = errors.New("invalid input")

// ContactDeps holds dependencies for the contact use cases.
type ContactDeps struct {
	Gateway gateway.Gateway
	Metrics *metrics.Metrics // optional
}

// ContactRef names one contact of one book.
type ContactRef struct {
	Book      string
	Firstname string
	Lastname  string
}

// Validate checks that every part of the reference is set.
func (r ContactRef) Validate() error {
	switch {
	case r.Book == "":
		return fmt.Errorf("%w: address book name is empty", ErrInvalidInput)
	case r.Firstname == "":
		return fmt.Errorf("%w: firstname is empty", ErrInvalidInput)
	case r.Lastname == "":
		return fmt.Errorf("%w: lastname is empty", ErrInvalidInput)
	}
	return nil
}

// Result describes the effect of a mutating use case.
type Result struct {
	// Changed is true when the book was modified and flushed.
	Changed bool
	// Rejected lists the values dropped by validation.
	Rejected []*validate.Error
	// Skipped is the reason the book was left unchanged, if any.
	Skipped error
}

// mutateContact runs open, mutate and flush for one contact. Soft domain
// errors from mutate turn the call into a logged no-op; a rejected value is
// reported in Result.Rejected. Only a successful mutation is flushed.
// PRE: ref has been validated
// POST: the store is written iff Result.Changed
func mutateContact(ctx context.Context, event string, ref ContactRef, deps ContactDeps, mutate func(*addressbook.AddressBook) error) (Result, error) {
	b, err := deps.Gateway.Open(ctx, ref.Book)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if err := mutate(b); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			res.Rejected = append(res.Rejected, verr)
			deps.Metrics.CountRejected(verr.Field)
		}
		res.Skipped = err
		slog.Info("contact_event", "event", event+"_skipped", "book", ref.Book,
			"firstname", ref.Firstname, "lastname", ref.Lastname, "reason", err.Error())
		return res, nil
	}

	if err := deps.Gateway.Flush(ctx, b); err != nil {
		return Result{}, err
	}
	res.Changed = true
	slog.Info("contact_event", "event", event, "book", ref.Book,
		"firstname", ref.Firstname, "lastname", ref.Lastname)
	return res, nil
}
