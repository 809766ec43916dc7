// Package storage is the SQLite record store. Every snapshot table carries a
// UNIQUE date so a category holds at most one snapshot per day.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"networth/internal/records"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db    *sql.DB
	store *records.Store
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer keeps patch transactions serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite repository ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db: db,
		store: &records.Store{
			Current:            newSnapshotTable(db, currentAccountsColumns),
			Cash:               newSnapshotTable(db, cashAccountsColumns),
			Uk:                 newSnapshotTable(db, ukAccountsColumns),
			Super:              newSnapshotTable(db, superAccountsColumns),
			Investments:        newSnapshotTable(db, investmentAccountsColumns),
			Mortgage:           newSnapshotTable(db, mortgageColumns),
			Budget:             newSnapshotTable(db, budgetColumns),
			CryptoTransactions: &cryptoLedger{db: db},
			CryptoSummaries:    &cryptoSummaries{db: db},
		},
	}, nil
}

// Store exposes the repository's tables.
func (r *SQLiteRepository) Store() *records.Store {
	return r.store
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
