package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

// AuditRepository persists auth-layer audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// ListByUsername returns the trail for one username, oldest first.
	ListByUsername(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error)
}
