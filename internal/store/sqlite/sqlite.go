// Package sqlitestore implements the session store on a local SQLite
// database. It wraps the gorm backend via composition; the only
// SQLite-specific concern is opening the file-backed connection.
package sqlitestore

import (
	"fmt"

	"github.com/meshsite/planner/internal/database"
	"github.com/meshsite/planner/internal/store/gormstore"
)

// Backend wraps the gorm backend for SQLite.
type Backend struct {
	*gormstore.Backend
}

// New creates a new SQLite session store at path. An empty path uses
// an in-memory database.
func New(path, slot string) (*Backend, error) {
	db, err := database.OpenSqlite(path)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite session DB: %w", err)
	}
	return &Backend{Backend: gormstore.New(db, slot)}, nil
}
