package app

import (
	"github.com/bunchhieng/shelf/internal/config"
	"github.com/bunchhieng/shelf/internal/storage"
)

// NewStorage opens the SQLite database named by cfg, defaulting to the
// platform config directory.
func NewStorage(cfg *config.Config) (storage.Storage, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	return storage.NewSQLiteStorage(dbPath)
}
