// Package store opens the list repository selected by configuration.
package store

import (
	"context"
	"fmt"

	"superlists/internal/domain/list"
	"superlists/internal/infrastructure/postgres"
	"superlists/internal/infrastructure/sqlite"
	"superlists/internal/shared/config"
)

type Store struct {
	Repo   list.Repository
	Driver string

	pg      *postgres.DB
	migrate func(ctx context.Context) error
	close   func() error
}

// Open connects to the configured backend. Postgres schema changes are applied
// by Migrate; the sqlite backend migrates on open.
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		return &Store{
			Repo:    postgres.NewListRepository(db),
			Driver:  config.DriverPostgres,
			pg:      db,
			migrate: db.Migrate,
			close:   db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repo:    sqlite.NewListRepository(db),
			Driver:  config.DriverSQLite,
			migrate: func(ctx context.Context) error { return sqlite.Migrate(db.WithContext(ctx)) },
			close:   func() error { return sqlite.Close(db) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Migrate applies the schema for the selected backend.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

// Notifier returns a publisher that sends list events with pg_notify on channel.
// Only the postgres backend supports it.
func (s *Store) Notifier(channel string) (list.Publisher, error) {
	if s.pg == nil {
		return nil, fmt.Errorf("pg_notify events need the %s store, not %s", config.DriverPostgres, s.Driver)
	}
	return postgres.NewNotifier(s.pg, channel), nil
}

func (s *Store) Close() error {
	return s.close()
}
