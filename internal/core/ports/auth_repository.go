package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
// Username uniqueness is a store-level constraint: of two concurrent Create
// calls for the same username, at most one succeeds and the other observes
// domain.ErrUserExists.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListUsernames returns all usernames ordered by creation time.
	ListUsernames(ctx context.Context) ([]string, error)
}
