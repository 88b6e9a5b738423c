// Package storage is the only component allowed to touch the SQLite
// store. It exposes typed CRUD per entity plus the two read-only
// aggregate queries (inventory valuation, monthly cash flow).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Repository wraps the SQLite handle. It is constructed explicitly at
// process startup and injected into every layer that needs the store;
// there is no lazily-initialized global handle.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and runs pending
// migrations. Startup fails fast when the store cannot be opened.
func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY between our own statements.
	db.SetMaxOpenConns(1)

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// now returns the UTC timestamp written to created_at/updated_at.
func now() time.Time {
	return time.Now().UTC()
}
