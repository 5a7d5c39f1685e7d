// Package postgresstore implements the session store on Postgres.
// Connection parameters come from the db.* configuration keys.
package postgresstore

import (
	"fmt"

	"github.com/meshsite/planner/internal/database"
	"github.com/meshsite/planner/internal/store/gormstore"
)

// Backend wraps the gorm backend for Postgres.
type Backend struct {
	*gormstore.Backend
}

// New creates a new Postgres session store.
func New(slot string) (*Backend, error) {
	db, err := database.OpenPostgres()
	if err != nil {
		return nil, fmt.Errorf("opening Postgres session DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging Postgres session DB: %w", err)
	}
	return &Backend{Backend: gormstore.New(db, slot)}, nil
}
