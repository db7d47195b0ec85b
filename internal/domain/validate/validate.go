// Package validate checks the syntax of contact phone numbers and email addresses.
//
// Validators are total: any string is accepted as input and an invalid value is
// reported through the return value, never by panicking.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Field names carried by Error.
const (
	FieldPhone = "phone"
	FieldEmail = "email"
)

// phoneDigits is the number of digits in a local phone number ("0" plus four pairs).
const phoneDigits = 10

var (
	phonePattern = regexp.MustCompile(`^0[0-9]([ .-]?[0-9]{2}){4}$`)
	// The local part deliberately accepts digits 1-9 only.
	emailPattern = regexp.MustCompile(`^[A-Za-z1-9]+@[a-z]+\.[a-z]+$`)
	localPattern = regexp.MustCompile(`^[A-Za-z1-9]+$`)
	hostPattern  = regexp.MustCompile(`^[a-z]+\.[a-z]+$`)
)

// Domain errors
var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email address")
)

// Error describes a rejected value and the reason it was rejected.
type Error struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("rejected %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is the sentinel matching the rejected field.
func (e *Error) Is(target error) bool {
	switch e.Field {
	case FieldPhone:
		return target == ErrInvalidPhone
	case FieldEmail:
		return target == ErrInvalidEmail
	}
	return false
}

// CheckPhone reports whether v is a local phone number: a leading 0, one digit,
// then four digit pairs optionally preceded by a space, dot or hyphen.
func CheckPhone(v string) bool {
	return phonePattern.MatchString(v)
}

// CheckEmail reports whether v has the shape local@domain.tld.
func CheckEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// Phone returns nil when v is a valid phone number, otherwise an *Error
// explaining the first problem found.
// PRE: none
// POST: result is nil iff CheckPhone(v)
func Phone(v string) error {
	if CheckPhone(v) {
		return nil
	}
	return &Error{Field: FieldPhone, Value: v, Reason: phoneReason(v)}
}

// Email returns nil when v is a valid email address, otherwise an *Error
// explaining the first problem found.
// PRE: none
// POST: result is nil iff CheckEmail(v)
func Email(v string) error {
	if CheckEmail(v) {
		return nil
	}
	return &Error{Field: FieldEmail, Value: v, Reason: emailReason(v)}
}

func phoneReason(v string) string {
	if v == "" {
		return "value is empty"
	}
	if v[0] != '0' {
		return "must start with 0"
	}
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '.' || r == '-':
		default:
			return fmt.Sprintf("contains disallowed character %q", r)
		}
	}
	if digits != phoneDigits {
		return fmt.Sprintf("must contain %d digits, got %d", phoneDigits, digits)
	}
	return "separators are only allowed once between digit pairs"
}

func emailReason(v string) string {
	if v == "" {
		return "value is empty"
	}
	local, host, ok := strings.Cut(v, "@")
	if !ok {
		return "missing @"
	}
	if !localPattern.MatchString(local) {
		return "local part must be letters or digits 1-9"
	}
	if !hostPattern.MatchString(host) {
		return "domain must be lowercase letters followed by a dot and a lowercase top-level domain"
	}
	return "unexpected format"
}
