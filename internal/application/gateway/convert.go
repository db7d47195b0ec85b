package gateway

import (
	"errors"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/contact"
	"github.com/nicolasdeu/Tact/internal/domain/record"
)

// FromRows rebuilds a book from normalized rows. Contacts are created on
// the first row carrying their name; every row's phone and email is added
// to that contact and re-validated. Values that no longer pass validation
// are dropped and returned in dropped. Repeated values are merged silently.
// PRE: rows are in stored order
// POST: contact, phone and email order follow first appearance in rows
func FromRows(name string, rows []record.Row) (b *addressbook.AddressBook, dropped []error) {
	b = addressbook.New(name)
	for _, r := range rows {
		c, ok := b.FindContact(r.Firstname, r.Lastname)
		if !ok {
			c = contact.New(r.Firstname, r.Lastname, r.MailingAddress, nil, nil)
			b.AppendContact(c)
		}
		if r.Phone != nil {
			dropped = keepDropped(dropped, c.AddPhone(*r.Phone))
		}
		if r.Email != nil {
			dropped = keepDropped(dropped, c.AddEmail(*r.Email))
		}
	}
	return b, dropped
}

// ToRows flattens b into normalized rows: per contact, one row per phone,
// then one row per email, or a single bare row when it has neither.
func ToRows(b *addressbook.AddressBook) []record.Row {
	var rows []record.Row
	for _, c := range b.Contacts() {
		base := record.Row{
			Firstname:      c.Firstname(),
			Lastname:       c.Lastname(),
			MailingAddress: c.MailingAddress,
		}
		phones, emails := c.Phones(), c.Emails()
		if len(phones) == 0 && len(emails) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, p := range phones {
			p := p
			r := base
			r.Phone = &p
			rows = append(rows, r)
		}
		for _, e := range emails {
			e := e
			r := base
			r.Email = &e
			rows = append(rows, r)
		}
	}
	return rows
}

// FromFlat rebuilds a book with one contact per record, splitting the
// multi-valued fields on record.Separator.
func FromFlat(name string, recs []record.Flat) (b *addressbook.AddressBook, dropped []error) {
	b = addressbook.New(name)
	for _, r := range recs {
		c := contact.New(r.Firstname, r.Lastname, r.MailingAddress, nil, nil)
		for _, e := range record.Split(r.Emails) {
			dropped = keepDropped(dropped, c.AddEmail(e))
		}
		for _, p := range record.Split(r.Phones) {
			dropped = keepDropped(dropped, c.AddPhone(p))
		}
		b.AppendContact(c)
	}
	return b, dropped
}

// ToFlat returns one record per contact in book order.
func ToFlat(b *addressbook.AddressBook) []record.Flat {
	contacts := b.Contacts()
	recs := make([]record.Flat, 0, len(contacts))
	for _, c := range contacts {
		recs = append(recs, record.Flat{
			Firstname:      c.Firstname(),
			Lastname:       c.Lastname(),
			MailingAddress: c.MailingAddress,
			Emails:         record.Join(c.Emails()),
			Phones:         record.Join(c.Phones()),
		})
	}
	return recs
}

func keepDropped(dropped []error, err error) []error {
	if err == nil || errors.Is(err, contact.ErrDuplicateValue) {
		return dropped
	}
	return append(dropped, err)
}
