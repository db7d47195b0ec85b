package addressbook

import (
	"errors"
	"slices"

	"github.com/nicolasdeu/Tact/internal/domain/contact"
)

// Domain errors. Both leave the book unchanged.
var (
	ErrContactNotFound  = errors.New("contact not found")
	ErrDuplicateContact = errors.New("contact already exists")
)

// AddressBook is a named collection of contacts unique by (firstname, lastname).
// Lookups go through a map keyed by contact.Key; order holds insertion order.
type AddressBook struct {
	name  string
	index map[contact.Key]*contact.Contact
	order []*contact.Contact
}

// New creates an empty address book.
func New(name string) *AddressBook {
	return &AddressBook{
		name:  name,
		index: make(map[contact.Key]*contact.Contact),
	}
}

// Name returns the book name.
func (b *AddressBook) Name() string { return b.name }

// ContactCount returns the number of contacts held.
func (b *AddressBook) ContactCount() int { return len(b.order) }

// Contacts returns the contacts in insertion order. The slice is a copy; the
// contacts are not.
func (b *AddressBook) Contacts() []*contact.Contact {
	return slices.Clone(b.order)
}

// FindContact returns the contact with the given names.
// POST: if several contacts share the key, the first inserted one is returned
func (b *AddressBook) FindContact(firstname, lastname string) (*contact.Contact, bool) {
	c, ok := b.index[contact.Key{Firstname: firstname, Lastname: lastname}]
	return c, ok
}

// AppendContact appends c without checking for an existing contact with the
// same names. It is meant for rebuilding a book from storage, which already
// guarantees uniqueness.
func (b *AddressBook) AppendContact(c *contact.Contact) {
	if _, ok := b.index[c.Key()]; !ok {
		b.index[c.Key()] = c
	}
	b.order = append(b.order, c)
}

// AddContact creates and appends a contact. An existing contact with the
// same names wins: it is left untouched and ErrDuplicateContact is returned.
// PRE: none
// POST: on nil error ContactCount() grew by one
func (b *AddressBook) AddContact(firstname, lastname, mailingAddress string, emails, phones []string) (*contact.Contact, error) {
	if _, ok := b.FindContact(firstname, lastname); ok {
		return nil, ErrDuplicateContact
	}
	c := contact.New(firstname, lastname, mailingAddress, emails, phones)
	b.AppendContact(c)
	return c, nil
}

// RemoveContact deletes the contact with the given names.
// POST: on nil error FindContact no longer returns the removed contact
func (b *AddressBook) RemoveContact(firstname, lastname string) error {
	key := contact.Key{Firstname: firstname, Lastname: lastname}
	c, ok := b.index[key]
	if !ok {
		return ErrContactNotFound
	}
	b.order = slices.DeleteFunc(b.order, func(o *contact.Contact) bool { return o == c })
	delete(b.index, key)
	// Re-point the index if a duplicate appended from storage is still held.
	for _, o := range b.order {
		if o.Key() == key {
			b.index[key] = o
			break
		}
	}
	return nil
}

// AddContactPhone adds a phone to the named contact.
func (b *AddressBook) AddContactPhone(firstname, lastname, phone string) error {
	return b.withContact(firstname, lastname, func(c *contact.Contact) error { return c.AddPhone(phone) })
}

// RemoveContactPhone removes a phone from the named contact.
func (b *AddressBook) RemoveContactPhone(firstname, lastname, phone string) error {
	return b.withContact(firstname, lastname, func(c *contact.Contact) error { return c.RemovePhone(phone) })
}

// AddContactEmail adds an email to the named contact.
func (b *AddressBook) AddContactEmail(firstname, lastname, email string) error {
	return b.withContact(firstname, lastname, func(c *contact.Contact) error { return c.AddEmail(email) })
}

// RemoveContactEmail removes an email from the named contact.
func (b *AddressBook) RemoveContactEmail(firstname, lastname, email string) error {
	return b.withContact(firstname, lastname, func(c *contact.Contact) error { return c.RemoveEmail(email) })
}

// Clone returns a deep copy of the book and all of its contacts.
func (b *AddressBook) Clone() *AddressBook {
	cp := New(b.name)
	for _, c := range b.order {
		cp.AppendContact(c.Clone())
	}
	return cp
}

func (b *AddressBook) withContact(firstname, lastname string, fn func(*contact.Contact) error) error {
	c, ok := b.FindContact(firstname, lastname)
	if !ok {
		return ErrContactNotFound
	}
	return fn(c)
}
