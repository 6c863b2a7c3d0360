// Package sqlite implements workspace persistence over SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/glyph/internal/workspace"
)

// schema is applied on every open; CREATE IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS workspaces (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	spec TEXT NOT NULL,
	revision INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (name, revision)
);
CREATE INDEX IF NOT EXISTS idx_workspaces_name ON workspaces(name);
`

// Store bundles the database handle and its repositories.
type Store struct {
	db         *sql.DB
	workspaces *workspaceRepository
}

// Open opens (creating if needed) the workspace database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{
		db:         db,
		workspaces: newWorkspaceRepository(db),
	}, nil
}

// Workspaces returns the workspace repository.
func (s *Store) Workspaces() workspace.Repository {
	return s.workspaces
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
