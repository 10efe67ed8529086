package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

// AuditService persists audit events and serves the trail read path. Process
// is invoked from the dispatcher workers, never from the request path.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
	// Trail returns one username's events, oldest first. limit <= 0 means all.
	Trail(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error)
}

// Auditor is the write side exposed to the request path: enqueue and move on.
// A full queue or a down store must never fail the request being audited.
type Auditor interface {
	Record(event domain.AuditEvent)
}
