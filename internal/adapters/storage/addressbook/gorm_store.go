package addressbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/nicolasdeu/Tact/internal/adapters/storage"
	"github.com/nicolasdeu/Tact/internal/domain/record"
)

type bookModel struct {
	ID       string         `gorm:"primaryKey"`
	Name     string         `gorm:"not null;uniqueIndex"`
	Contacts []contactModel `gorm:"foreignKey:AddressBookID"`
}

func (bookModel) TableName() string { return "address_book" }

type contactModel struct {
	ID            string       `gorm:"primaryKey"`
	AddressBookID string       `gorm:"not null;uniqueIndex:idx_contact_name"`
	Position      int          `gorm:"not null"`
	Firstname     string       `gorm:"not null;uniqueIndex:idx_contact_name"`
	Lastname      string       `gorm:"not null;uniqueIndex:idx_contact_name"`
	HomeAddress   string       `gorm:"not null"`
	Phones        []phoneModel `gorm:"foreignKey:ContactID"`
	Emails        []emailModel `gorm:"foreignKey:ContactID"`
}

func (contactModel) TableName() string { return "contact" }

type phoneModel struct {
	ID        string `gorm:"primaryKey"`
	ContactID string `gorm:"not null;index"`
	Position  int    `gorm:"not null"`
	Number    string `gorm:"not null"`
}

func (phoneModel) TableName() string { return "phone" }

type emailModel struct {
	ID        string `gorm:"primaryKey"`
	ContactID string `gorm:"not null;index"`
	Position  int    `gorm:"not null"`
	Address   string `gorm:"not null"`
}

func (emailModel) TableName() string { return "email" }

// GormStore implements RowStore on gorm models mapped to the same tables as
// the SQL schema. Dependent phone and email rows are deleted explicitly.
type GormStore struct {
	db    *gorm.DB
	newID func() string
}

// Compile-time check that *GormStore satisfies RowStore.
var _ RowStore = (*GormStore)(nil)

// OpenGorm opens the SQLite file at path through gorm, using the pure-Go
// sqlite driver, and migrates the models.
// PRE: the modernc.org/sqlite driver is registered by the caller
// POST: the address book tables exist
func OpenGorm(path string, slowThreshold time.Duration) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	gormLog := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormLogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(&sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&bookModel{}, &contactModel{}, &phoneModel{}, &emailModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewGormStore creates a new GormStore.
// PRE: db was returned by OpenGorm
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, newID: uuid.NewString}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position") }

// LoadRows returns the rows of a book, contact by contact: one row per
// phone, then one per email, or a bare row when the contact has neither.
// POST: Returns storage.ErrBookNotFound if the book was never saved
func (s *GormStore) LoadRows(ctx context.Context, book string) ([]record.Row, error) {
	var b bookModel
	err := s.db.WithContext(ctx).
		Preload("Contacts", byPosition).
		Preload("Contacts.Phones", byPosition).
		Preload("Contacts.Emails", byPosition).
		Where("name = ?", book).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("address book %q: %w", book, storage.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}

	var rows []record.Row
	for _, c := range b.Contacts {
		base := record.Row{Firstname: c.Firstname, Lastname: c.Lastname, MailingAddress: c.HomeAddress}
		if len(c.Phones) == 0 && len(c.Emails) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, p := range c.Phones {
			r := base
			r.Phone = strPtr(p.Number)
			rows = append(rows, r)
		}
		for _, e := range c.Emails {
			r := base
			r.Email = strPtr(e.Address)
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// SaveRows replaces everything stored under book with rows inside one
// gorm transaction: emails, phones, contacts and the book row are deleted
// in that order before the new graph is created.
// POST: on error the previous state of the book is intact
func (s *GormStore) SaveRows(ctx context.Context, book string, rows []record.Row) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old bookModel
		err := tx.Where("name = ?", book).First(&old).Error
		switch {
		case err == nil:
			contactIDs := func() *gorm.DB {
				return tx.Model(&contactModel{}).Select("id").Where("address_book_id = ?", old.ID)
			}
			if err := tx.Where("contact_id IN (?)", contactIDs()).Delete(&emailModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("contact_id IN (?)", contactIDs()).Delete(&phoneModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("address_book_id = ?", old.ID).Delete(&contactModel{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&old).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		nb := bookModel{ID: s.newID(), Name: book}
		for i, c := range groupRows(rows) {
			cm := contactModel{
				ID:          s.newID(),
				Position:    i,
				Firstname:   c.Firstname,
				Lastname:    c.Lastname,
				HomeAddress: c.MailingAddress,
			}
			for j, p := range c.Phones {
				cm.Phones = append(cm.Phones, phoneModel{ID: s.newID(), Position: j, Number: p})
			}
			for j, e := range c.Emails {
				cm.Emails = append(cm.Emails, emailModel{ID: s.newID(), Position: j, Address: e})
			}
			nb.Contacts = append(nb.Contacts, cm)
		}
		return tx.Create(&nb).Error
	})
}

// ListBooks returns the names of all saved books in name order.
func (s *GormStore) ListBooks(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&bookModel{}).Order("name").Pluck("name", &names).Error
	return names, err
}
