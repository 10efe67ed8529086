package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storehouse/access-api/internal/api/metrics"
	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
)

// RecordService implements the generic keyed-record operations behind the
// versioned CRUD routes. It validates the collection name against the closed
// set before touching the store.
type RecordService struct {
	repo   ports.RecordRepository
	logger zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, logger zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, logger: logger}
}

func (s *RecordService) Create(ctx context.Context, collection string, fields map[string]any) (*domain.Record, error) {
	coll, err := domain.ParseCollection(collection)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Create(ctx, coll, fields)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Msg("failed to create record")
		return nil, err
	}

	metrics.RecordOpsTotal.WithLabelValues(collection, "create").Inc()
	return record, nil
}

func (s *RecordService) List(ctx context.Context, collection string) ([]*domain.Record, error) {
	coll, err := domain.ParseCollection(collection)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, coll)
	if err != nil {
		return nil, err
	}

	metrics.RecordOpsTotal.WithLabelValues(collection, "list").Inc()
	return records, nil
}

func (s *RecordService) Get(ctx context.Context, collection, id string) (*domain.Record, error) {
	coll, err := domain.ParseCollection(collection)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, coll, id)
	if err != nil {
		return nil, err
	}

	metrics.RecordOpsTotal.WithLabelValues(collection, "get").Inc()
	return record, nil
}

func (s *RecordService) Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Record, error) {
	coll, err := domain.ParseCollection(collection)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Update(ctx, coll, id, fields)
	if err != nil {
		return nil, err
	}

	metrics.RecordOpsTotal.WithLabelValues(collection, "update").Inc()
	return record, nil
}

func (s *RecordService) Delete(ctx context.Context, collection, id string) (int64, error) {
	coll, err := domain.ParseCollection(collection)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, coll, id)
	if err != nil {
		return 0, err
	}

	metrics.RecordOpsTotal.WithLabelValues(collection, "delete").Inc()
	return deleted, nil
}
