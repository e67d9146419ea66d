package storage

import (
	"context"

	"github.com/bunchhieng/shelf/internal/model"
)

// Storage persists a whole collection snapshot.
type Storage interface {
	// Load reads the saved snapshot. An empty database yields an empty
	// snapshot.
	Load(ctx context.Context) (model.Snapshot, error)

	// Save replaces everything stored with snap atomically.
	Save(ctx context.Context, snap model.Snapshot) error

	// Close closes the storage connection.
	Close() error
}
