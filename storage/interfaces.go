package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/poiesic/clipkeep/core"
)

// Repository provides common storage operations shared by all
// repositories. Implementations must be thread-safe.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// EntryRepository persists clipboard entries. The history core treats
// every method as best-effort: errors are logged by the caller and never
// abort the in-memory operation.
type EntryRepository interface {
	Repository

	// ListAll retrieves every stored entry, most recently copied first.
	ListAll(ctx context.Context) ([]*core.Entry, error)

	// Add stores one or more new entries.
	Add(ctx context.Context, entries ...*core.Entry) error

	// Update rewrites existing entries after metadata changes (merge,
	// pin toggle). Returns ErrNotFound if any entry doesn't exist.
	Update(ctx context.Context, entries ...*core.Entry) error

	// Delete removes entries by their IDs. Missing IDs are ignored.
	Delete(ctx context.Context, ids ...uuid.UUID) error

	// DeleteAll removes every stored entry.
	DeleteAll(ctx context.Context) error

	// Sync flushes pending writes to durable storage.
	Sync() error
}
