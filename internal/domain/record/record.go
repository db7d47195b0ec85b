// Package record defines the storage shapes of an address book.
//
// Row is the normalized form: one row per contact-phone or contact-email pair,
// or a single row with neither for a contact that has no phone and no email.
// Flat is the single-row-per-contact form used by CSV files, with multi-valued
// fields joined by Separator.
package record

import "strings"

// Separator joins multi-valued fields in Flat records.
const Separator = "|"

// Header is the column header of the CSV form.
var Header = []string{"Firstname", "Lastname", "Home Address", "Emails", "Phones"}

// Row is one normalized storage row.
type Row struct {
	Firstname      string
	Lastname       string
	MailingAddress string
	Phone          *string
	Email          *string
}

// Flat is one contact in the single-row form.
type Flat struct {
	Firstname      string
	Lastname       string
	MailingAddress string
	Emails         string
	Phones         string
}

// Fields returns the record in Header column order.
func (f Flat) Fields() []string {
	return []string{f.Firstname, f.Lastname, f.MailingAddress, f.Emails, f.Phones}
}

// Join concatenates values with Separator.
func Join(values []string) string {
	return strings.Join(values, Separator)
}

// Split is the inverse of Join. An empty string yields an empty collection.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, Separator)
}
