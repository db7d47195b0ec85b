package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrBookNotFound is returned by store drivers when no address book with the
// requested name has ever been saved.
var ErrBookNotFound = errors.New("address book not found")

// migration upgrades the schema by exactly one version.
type migration func(tx *sql.Tx) error

// migrations are applied in order; migrations[i] produces version i+1.
var migrations = []migration{
	migrateBaseline,
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return len(migrations)
}

// Open opens the SQLite database at path with foreign keys enforced.
// PRE: the modernc.org/sqlite driver is registered by the caller
// POST: returned DB is reachable; a single connection serializes writers
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, multierr.Append(fmt.Errorf("database unreachable: %w", err), db.Close())
	}
	return db, nil
}

// InitDB enables foreign keys and brings the schema to the latest version.
// PRE: db is a valid database connection
// POST: All tables exist, SchemaVersion(db) == LatestSchemaVersion()
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return MigrateDB(db)
}

// SchemaVersion returns the current schema version, 0 for an empty database.
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion(); running it again is a no-op
func MigrateDB(db *sql.DB) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		if err := applyMigration(db, v+1, migrations[v]); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, version int, m migration) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m(tx); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// migrateBaseline creates the address book schema: one table per book,
// contact, phone and email, each child row pointing at its parent.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS address_book (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS contact (
		id TEXT PRIMARY KEY,
		address_book_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		home_address TEXT NOT NULL DEFAULT '',
		UNIQUE (address_book_id, firstname, lastname),
		FOREIGN KEY (address_book_id) REFERENCES address_book(id)
	);

	CREATE TABLE IF NOT EXISTS phone (
		id TEXT PRIMARY KEY,
		contact_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		number TEXT NOT NULL,
		FOREIGN KEY (contact_id) REFERENCES contact(id)
	);

	CREATE TABLE IF NOT EXISTS email (
		id TEXT PRIMARY KEY,
		contact_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		address TEXT NOT NULL,
		FOREIGN KEY (contact_id) REFERENCES contact(id)
	);

	CREATE INDEX IF NOT EXISTS idx_contact_book ON contact(address_book_id);
	CREATE INDEX IF NOT EXISTS idx_phone_contact ON phone(contact_id);
	CREATE INDEX IF NOT EXISTS idx_email_contact ON email(contact_id);
	`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
