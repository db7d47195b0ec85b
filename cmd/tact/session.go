package main

import (
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
	"github.com/nicolasdeu/Tact/internal/adapters/storage"
	bookstore "github.com/nicolasdeu/Tact/internal/adapters/storage/addressbook"
	"github.com/nicolasdeu/Tact/internal/application/gateway"
	"github.com/nicolasdeu/Tact/internal/application/orchestrators"
	"github.com/nicolasdeu/Tact/internal/config"
)

// session owns the store handle of one invocation.
type session struct {
	gateway gateway.Gateway
	lister  orchestrators.BookLister
	closers []func() error
}

// openSession opens the configured backend.
// POST: on nil error the caller must Close the session
func openSession(cfg config.Config, m *metrics.Metrics) (*session, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.Open(cfg.DBPath())
		if err != nil {
			return nil, err
		}
		if err := storage.InitDB(db); err != nil {
			return nil, multierr.Append(err, db.Close())
		}
		store := bookstore.NewSQLiteStore(storage.NewTimedDB(db, m, cfg.SlowQuery()))
		return &session{
			gateway: gateway.NewRowGateway(store, m),
			lister:  store,
			closers: []func() error{db.Close},
		}, nil

	case config.BackendORM:
		db, err := bookstore.OpenGorm(cfg.DBPath(), cfg.SlowQuery())
		if err != nil {
			return nil, err
		}
		store := bookstore.NewGormStore(db)
		return &session{
			gateway: gateway.NewRowGateway(store, m),
			lister:  store,
			closers: []func() error{store.Close},
		}, nil

	case config.BackendCSV:
		store := bookstore.NewCSVStore(cfg.CSVDir())
		return &session{
			gateway: gateway.NewFlatGateway(store, m),
			lister:  store,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Close releases the store handle.
func (s *session) Close() error {
	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c())
	}
	return err
}
