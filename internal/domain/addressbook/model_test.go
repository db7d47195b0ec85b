package addressbook_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/nicolasdeu/Tact/internal/domain/addressbook"
	"github.com/nicolasdeu/Tact/internal/domain/contact"
	"github.com/nicolasdeu/Tact/internal/domain/validate"
)

// TestAddContact_FirstWriteWins verifies a duplicate add leaves the original untouched.
func TestAddContact_FirstWriteWins(t *testing.T) {
	b := addressbook.New("default")
	if _, err := b.AddContact("Ada", "Lovelace", "London", []string{"ada@x.com"}, []string{"0102030405"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	c, err := b.AddContact("Ada", "Lovelace", "Paris", []string{"other@x.com"}, []string{"0607080910"})
	if !errors.Is(err, addressbook.ErrDuplicateContact) {
		t.Fatalf("second AddContact error = %v, want ErrDuplicateContact", err)
	}
	if c != nil {
		t.Errorf("second AddContact returned %v, want nil", c)
	}
	if b.ContactCount() != 1 {
		t.Errorf("ContactCount() = %d, want 1", b.ContactCount())
	}

	got, ok := b.FindContact("Ada", "Lovelace")
	if !ok {
		t.Fatal("FindContact: not found")
	}
	if got.MailingAddress != "London" {
		t.Errorf("MailingAddress = %q, want London", got.MailingAddress)
	}
	if !slices.Equal(got.Emails(), []string{"ada@x.com"}) || !slices.Equal(got.Phones(), []string{"0102030405"}) {
		t.Errorf("fields changed: emails=%v phones=%v", got.Emails(), got.Phones())
	}
}

// TestFindContact tests exact, case-sensitive lookup.
func TestFindContact(t *testing.T) {
	b := addressbook.New("default")
	b.AddContact("Jean", "Dupont", "", nil, nil)

	tests := []struct {
		first, last string
		want        bool
	}{
		{"Jean", "Dupont", true},
		{"jean", "Dupont", false},
		{"Jean", "Dupond", false},
		{"Dupont", "Jean", false},
	}
	for _, tt := range tests {
		if _, ok := b.FindContact(tt.first, tt.last); ok != tt.want {
			t.Errorf("FindContact(%q, %q) found=%v, want %v", tt.first, tt.last, ok, tt.want)
		}
	}
}

// TestContacts_InsertionOrder verifies contacts keep insertion order across removals.
func TestContacts_InsertionOrder(t *testing.T) {
	b := addressbook.New("default")
	for _, n := range []string{"C", "A", "B", "D"} {
		b.AddContact(n, "X", "", nil, nil)
	}
	if err := b.RemoveContact("A", "X"); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}
	b.AddContact("A", "X", "", nil, nil)

	var names []string
	for _, c := range b.Contacts() {
		names = append(names, c.Firstname())
	}
	if want := []string{"C", "B", "D", "A"}; !slices.Equal(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

// TestRemoveContact tests removal and the not-found no-op.
func TestRemoveContact(t *testing.T) {
	b := addressbook.New("default")
	b.AddContact("Jean", "Dupont", "", nil, nil)
	b.AddContact("Marie", "Curie", "", nil, nil)

	if err := b.RemoveContact("Nobody", "Here"); !errors.Is(err, addressbook.ErrContactNotFound) {
		t.Errorf("RemoveContact missing = %v, want ErrContactNotFound", err)
	}
	if b.ContactCount() != 2 {
		t.Errorf("ContactCount() = %d, want 2", b.ContactCount())
	}
	if err := b.RemoveContact("Jean", "Dupont"); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}
	if _, ok := b.FindContact("Jean", "Dupont"); ok {
		t.Error("removed contact still found")
	}
	if b.ContactCount() != 1 {
		t.Errorf("ContactCount() = %d, want 1", b.ContactCount())
	}
}

// TestAppendContact_BypassesDuplicateCheck verifies the reconstruction path.
func TestAppendContact_BypassesDuplicateCheck(t *testing.T) {
	b := addressbook.New("default")
	first := contact.New("Jean", "Dupont", "first", nil, nil)
	second := contact.New("Jean", "Dupont", "second", nil, nil)
	b.AppendContact(first)
	b.AppendContact(second)

	if b.ContactCount() != 2 {
		t.Fatalf("ContactCount() = %d, want 2", b.ContactCount())
	}
	got, _ := b.FindContact("Jean", "Dupont")
	if got != first {
		t.Error("FindContact should return the first appended contact")
	}

	if err := b.RemoveContact("Jean", "Dupont"); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}
	got, ok := b.FindContact("Jean", "Dupont")
	if !ok || got != second {
		t.Error("after removing the first, the second duplicate should be found")
	}
}

// TestContactMutations_MissingContact verifies mutations on an absent contact change nothing.
func TestContactMutations_MissingContact(t *testing.T) {
	b := addressbook.New("default")
	b.AddContact("Jean", "Dupont", "addr", []string{"jean@dupont.fr"}, []string{"0102030405"})
	before := b.Clone()

	ops := map[string]func() error{
		"add phone":    func() error { return b.AddContactPhone("No", "One", "0607080910") },
		"remove phone": func() error { return b.RemoveContactPhone("No", "One", "0102030405") },
		"add email":    func() error { return b.AddContactEmail("No", "One", "a@x.com") },
		"remove email": func() error { return b.RemoveContactEmail("No", "One", "jean@dupont.fr") },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, addressbook.ErrContactNotFound) {
				t.Errorf("error = %v, want ErrContactNotFound", err)
			}
		})
	}

	if b.ContactCount() != before.ContactCount() {
		t.Errorf("ContactCount() = %d, want %d", b.ContactCount(), before.ContactCount())
	}
	got, _ := b.FindContact("Jean", "Dupont")
	want, _ := before.FindContact("Jean", "Dupont")
	if got.Render() != want.Render() {
		t.Errorf("contact changed: %q, want %q", got.Render(), want.Render())
	}
}

// TestContactMutations_Delegate verifies mutations reach the contact.
func TestContactMutations_Delegate(t *testing.T) {
	b := addressbook.New("default")
	b.AddContact("Jean", "Dupont", "", nil, nil)

	if err := b.AddContactPhone("Jean", "Dupont", "0102030405"); err != nil {
		t.Fatalf("AddContactPhone: %v", err)
	}
	if err := b.AddContactPhone("Jean", "Dupont", "12"); !errors.Is(err, validate.ErrInvalidPhone) {
		t.Errorf("AddContactPhone invalid = %v", err)
	}
	if err := b.AddContactEmail("Jean", "Dupont", "jean@dupont.fr"); err != nil {
		t.Fatalf("AddContactEmail: %v", err)
	}
	if err := b.RemoveContactEmail("Jean", "Dupont", "jean@dupont.fr"); err != nil {
		t.Fatalf("RemoveContactEmail: %v", err)
	}
	if err := b.RemoveContactPhone("Jean", "Dupont", "0607080910"); !errors.Is(err, contact.ErrValueAbsent) {
		t.Errorf("RemoveContactPhone absent = %v", err)
	}

	c, _ := b.FindContact("Jean", "Dupont")
	if got := c.Render(); got != "Jean Dupont\n0102030405\n" {
		t.Errorf("Render() = %q", got)
	}
}

// TestScenario_EndToEnd runs the documented add-then-find scenario.
func TestScenario_EndToEnd(t *testing.T) {
	b := addressbook.New("default")
	if _, err := b.AddContact("Jean", "Dupont", "1 rue de Paris", []string{"jean@dupont.fr"}, []string{"0102030405"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	c, ok := b.FindContact("Jean", "Dupont")
	if !ok {
		t.Fatal("contact not found")
	}
	want := "Jean Dupont\n1 rue de Paris\njean@dupont.fr\n0102030405\n"
	if got := c.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// TestClone verifies the clone is independent of the original.
func TestClone(t *testing.T) {
	b := addressbook.New("work")
	b.AddContact("Jean", "Dupont", "", nil, nil)
	cp := b.Clone()
	cp.AddContact("Marie", "Curie", "", nil, nil)
	cp.AddContactPhone("Jean", "Dupont", "0102030405")

	if b.ContactCount() != 1 {
		t.Errorf("original ContactCount() = %d, want 1", b.ContactCount())
	}
	orig, _ := b.FindContact("Jean", "Dupont")
	if len(orig.Phones()) != 0 {
		t.Error("original contact was mutated through the clone")
	}
	if cp.Name() != "work" {
		t.Errorf("Name() = %q", cp.Name())
	}
}
