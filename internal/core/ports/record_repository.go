package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

// RecordRepository defines persistence for the generic keyed-record store
// backing the versioned CRUD resources.
type RecordRepository interface {
	Create(ctx context.Context, collection domain.Collection, fields map[string]any) (*domain.Record, error)
	// List returns all records of a collection in insertion order.
	List(ctx context.Context, collection domain.Collection) ([]*domain.Record, error)
	Get(ctx context.Context, collection domain.Collection, id string) (*domain.Record, error)
	// Update replaces the record's fields wholesale and returns the new state.
	Update(ctx context.Context, collection domain.Collection, id string, fields map[string]any) (*domain.Record, error)
	// Delete removes the record and returns the number of records removed.
	Delete(ctx context.Context, collection domain.Collection, id string) (int64, error)
}
