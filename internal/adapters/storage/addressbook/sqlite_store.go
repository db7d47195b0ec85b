package addressbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nicolasdeu/Tact/internal/adapters/storage"
	"github.com/nicolasdeu/Tact/internal/domain/record"
)

// SQLiteStore implements RowStore with hand-written SQL.
type SQLiteStore struct {
	db    storage.SQLDB
	newID func() string
}

// Compile-time check that *SQLiteStore satisfies RowStore.
var _ RowStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db has been initialized with storage.InitDB
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, newID: uuid.NewString}
}

// LoadRows returns the rows of a book: first one row per contact-phone pair
// (or a bare row for a contact without phones), then one row per email.
// Contacts and values come back in the order they were saved.
// PRE: book is non-empty
// POST: Returns storage.ErrBookNotFound if the book was never saved
func (s *SQLiteStore) LoadRows(ctx context.Context, book string) ([]record.Row, error) {
	var bookID string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM address_book WHERE name = ?", book).Scan(&bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("address book %q: %w", book, storage.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}

	phoneQuery := `SELECT c.firstname, c.lastname, c.home_address, p.number
		FROM contact c
		LEFT JOIN phone p ON p.contact_id = c.id
		WHERE c.address_book_id = ?
		ORDER BY c.position, p.position`
	rows, err := s.queryRows(ctx, phoneQuery, bookID, func(r *record.Row, v sql.NullString) {
		if v.Valid {
			r.Phone = strPtr(v.String)
		}
	})
	if err != nil {
		return nil, err
	}

	emailQuery := `SELECT c.firstname, c.lastname, c.home_address, e.address
		FROM contact c
		JOIN email e ON e.contact_id = c.id
		WHERE c.address_book_id = ?
		ORDER BY c.position, e.position`
	emailRows, err := s.queryRows(ctx, emailQuery, bookID, func(r *record.Row, v sql.NullString) {
		if v.Valid {
			r.Email = strPtr(v.String)
		}
	})
	if err != nil {
		return nil, err
	}
	return append(rows, emailRows...), nil
}

func (s *SQLiteStore) queryRows(ctx context.Context, query, bookID string, setValue func(*record.Row, sql.NullString)) ([]record.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []record.Row
	for rows.Next() {
		var r record.Row
		var value sql.NullString
		if err := rows.Scan(&r.Firstname, &r.Lastname, &r.MailingAddress, &value); err != nil {
			return nil, err
		}
		setValue(&r, value)
		results = append(results, r)
	}
	return results, rows.Err()
}

// SaveRows replaces everything stored under book with rows, in one transaction.
// PRE: rows hold at most one contact per (firstname, lastname)
// POST: on error the previous state of the book is intact
func (s *SQLiteStore) SaveRows(ctx context.Context, book string, rows []record.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	contactsOfBook := `SELECT c.id FROM contact c JOIN address_book b ON b.id = c.address_book_id WHERE b.name = ?`
	deletes := []string{
		"DELETE FROM email WHERE contact_id IN (" + contactsOfBook + ")",
		"DELETE FROM phone WHERE contact_id IN (" + contactsOfBook + ")",
		"DELETE FROM contact WHERE address_book_id IN (SELECT id FROM address_book WHERE name = ?)",
		"DELETE FROM address_book WHERE name = ?",
	}
	for _, q := range deletes {
		if _, err := tx.ExecContext(ctx, q, book); err != nil {
			return fmt.Errorf("clear address book %q: %w", book, err)
		}
	}

	bookID := s.newID()
	if _, err := tx.ExecContext(ctx, "INSERT INTO address_book (id, name) VALUES (?, ?)", bookID, book); err != nil {
		return err
	}

	for i, c := range groupRows(rows) {
		contactID := s.newID()
		_, err := tx.ExecContext(ctx,
			"INSERT INTO contact (id, address_book_id, position, firstname, lastname, home_address) VALUES (?, ?, ?, ?, ?, ?)",
			contactID, bookID, i, c.Firstname, c.Lastname, c.MailingAddress,
		)
		if err != nil {
			return fmt.Errorf("insert contact %s %s: %w", c.Firstname, c.Lastname, err)
		}
		for j, p := range c.Phones {
			if _, err := tx.ExecContext(ctx, "INSERT INTO phone (id, contact_id, position, number) VALUES (?, ?, ?, ?)", s.newID(), contactID, j, p); err != nil {
				return err
			}
		}
		for j, e := range c.Emails {
			if _, err := tx.ExecContext(ctx, "INSERT INTO email (id, contact_id, position, address) VALUES (?, ?, ?, ?)", s.newID(), contactID, j, e); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListBooks returns the names of all saved books in name order.
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM address_book ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
