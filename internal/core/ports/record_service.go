package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

// RecordService defines use-case operations for the CRUD resource sets.
// The collection name arrives raw from the route and is validated against the
// closed collection set before any store access.
type RecordService interface {
	Create(ctx context.Context, collection string, fields map[string]any) (*domain.Record, error)
	List(ctx context.Context, collection string) ([]*domain.Record, error)
	Get(ctx context.Context, collection, id string) (*domain.Record, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Record, error)
	Delete(ctx context.Context, collection, id string) (int64, error)
}
