package store

import (
	"fmt"

	"github.com/meshsite/planner/internal/config"
	"github.com/meshsite/planner/internal/store/file"
	"github.com/meshsite/planner/internal/store/memory"
	postgresstore "github.com/meshsite/planner/internal/store/postgres"
	sqlitestore "github.com/meshsite/planner/internal/store/sqlite"
)

// NewStore creates a session store backend based on configuration.
func NewStore(cfg config.StorageConfig, slot string) (Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "file":
		return file.New(cfg.File.Dir, slot), nil
	case "sqlite":
		return sqlitestore.New(cfg.SQLite.Path, slot)
	case "postgres":
		return postgresstore.New(slot)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
