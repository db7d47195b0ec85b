package contact

import (
	"errors"
	"slices"
	"strings"

	"github.com/nicolasdeu/Tact/internal/domain/validate"
)

// Domain errors. All of them leave the contact unchanged.
var (
	ErrEmptyValue     = errors.New("value is empty")
	ErrDuplicateValue = errors.New("value already present")
	ErrValueAbsent    = errors.New("value not present")
)

// Key is the natural identity of a contact.
type Key struct {
	Firstname string
	Lastname  string
}

// String returns "firstname lastname".
func (k Key) String() string {
	return k.Firstname + " " + k.Lastname
}

// Contact holds one person's details. Firstname and Lastname are fixed at
// construction; emails and phones are ordered sets of validated values.
type Contact struct {
	firstname      string
	lastname       string
	MailingAddress string
	emails         []string
	phones         []string
}

// New builds a contact. Names are stored verbatim. Invalid and repeated
// emails/phones are dropped; the survivors keep their input order.
// PRE: none
// POST: returned contact owns fresh email/phone slices
func New(firstname, lastname, mailingAddress string, emails, phones []string) *Contact {
	c := &Contact{
		firstname:      firstname,
		lastname:       lastname,
		MailingAddress: mailingAddress,
		emails:         make([]string, 0, len(emails)),
		phones:         make([]string, 0, len(phones)),
	}
	for _, e := range emails {
		_ = c.AddEmail(e)
	}
	for _, p := range phones {
		_ = c.AddPhone(p)
	}
	return c
}

// Firstname returns the contact's first name.
func (c *Contact) Firstname() string { return c.firstname }

// Lastname returns the contact's last name.
func (c *Contact) Lastname() string { return c.lastname }

// Key returns the identity key of the contact.
func (c *Contact) Key() Key {
	return Key{Firstname: c.firstname, Lastname: c.lastname}
}

// Emails returns a copy of the email addresses in insertion order.
func (c *Contact) Emails() []string { return slices.Clone(c.emails) }

// Phones returns a copy of the phone numbers in insertion order.
func (c *Contact) Phones() []string { return slices.Clone(c.phones) }

// AddPhone appends a phone number.
// PRE: none
// POST: on nil error the number is the last phone; otherwise phones are unchanged
func (c *Contact) AddPhone(v string) error {
	return addValue(&c.phones, v, validate.Phone)
}

// RemovePhone removes a phone number.
// POST: on nil error the number is no longer present
func (c *Contact) RemovePhone(v string) error {
	return removeValue(&c.phones, v)
}

// AddEmail appends an email address.
// PRE: none
// POST: on nil error the address is the last email; otherwise emails are unchanged
func (c *Contact) AddEmail(v string) error {
	return addValue(&c.emails, v, validate.Email)
}

// RemoveEmail removes an email address.
// POST: on nil error the address is no longer present
func (c *Contact) RemoveEmail(v string) error {
	return removeValue(&c.emails, v)
}

// Equals reports whether both contacts share firstname and lastname.
// Mailing address, emails and phones are not part of identity.
func (c *Contact) Equals(other *Contact) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.firstname == other.firstname && c.lastname == other.lastname
}

// Render returns the text block printed by the find command: the name, the
// mailing address when set, then one line per email and one per phone.
func (c *Contact) Render() string {
	var b strings.Builder
	b.WriteString(c.firstname)
	b.WriteByte(' ')
	b.WriteString(c.lastname)
	b.WriteByte('\n')
	if c.MailingAddress != "" {
		b.WriteString(c.MailingAddress)
		b.WriteByte('\n')
	}
	for _, e := range c.emails {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	for _, p := range c.phones {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns a deep copy sharing no storage with c.
func (c *Contact) Clone() *Contact {
	return &Contact{
		firstname:      c.firstname,
		lastname:       c.lastname,
		MailingAddress: c.MailingAddress,
		emails:         slices.Clone(c.emails),
		phones:         slices.Clone(c.phones),
	}
}

func addValue(set *[]string, v string, check func(string) error) error {
	if v == "" {
		return ErrEmptyValue
	}
	if err := check(v); err != nil {
		return err
	}
	if slices.Contains(*set, v) {
		return ErrDuplicateValue
	}
	*set = append(*set, v)
	return nil
}

func removeValue(set *[]string, v string) error {
	i := slices.Index(*set, v)
	if i < 0 {
		return ErrValueAbsent
	}
	*set = slices.Delete(*set, i, i+1)
	return nil
}
