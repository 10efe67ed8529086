package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storehouse/access-api/internal/api/metrics"
	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to the audit
// repository. Invoked from dispatcher workers only.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "error").Inc()
		return fmt.Errorf("persist audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "ok").Inc()
	s.log.Debug().
		Str("username", event.Username).
		Str("action", string(event.Action)).
		Msg("audit event persisted")
	return nil
}

// Trail returns the stored events for one username, oldest first.
func (s *auditService) Trail(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	return s.repo.ListByUsername(ctx, username, limit)
}
