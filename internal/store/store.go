package store

import (
	"context"

	"github.com/MikeSquared-Agency/ForceRank/internal/scoring"
)

// Source supplies the full set of force-structure records. Implementations
// return records in a stable order; the ranking's tie-breaks depend on it.
type Source interface {
	LoadRecords(ctx context.Context) ([]scoring.Record, error)
	Name() string
}

// Store is a Source that can also be written to, used by the seed command.
type Store interface {
	Source
	EnsureSchema(ctx context.Context) error
	UpsertRecords(ctx context.Context, records []scoring.Record) (int, error)
	Close() error
}
