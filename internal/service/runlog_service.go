package service

import (
	"context"
	"fmt"

	"github.com/gestaolabs/sankhya-sync/internal/metrics"
	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/gestaolabs/sankhya-sync/internal/store"
	"go.uber.org/zap"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// RunLogService fronts the append-only run log. Appends are best-effort: a
// logging failure must never fail the run it is recording.
type RunLogService struct {
	runLogStore store.RunLogStore
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewRunLogService creates a new run log service
func NewRunLogService(runLogStore store.RunLogStore, m *metrics.Metrics, logger *zap.Logger) *RunLogService {
	return &RunLogService{
		runLogStore: runLogStore,
		metrics:     m,
		logger:      logger,
	}
}

// Record appends a run result. Failures are logged and counted but not
// returned; the result the caller holds is already final.
func (s *RunLogService) Record(ctx context.Context, result *model.SyncRunResult) {
	if err := s.runLogStore.Append(ctx, result); err != nil {
		s.metrics.RecordLogAppendFailure()
		s.logger.Error("Failed to append run result to log",
			zap.String("run_id", result.RunID),
			zap.Int64("tenant_id", result.TenantID),
			zap.String("entity_type", result.EntityType.String()),
			zap.Error(err))
	}
}

// Query returns run results matching the filter, newest first
func (s *RunLogService) Query(ctx context.Context, filter store.RunFilter) ([]*model.SyncRunResult, error) {
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.runLogStore.Query(ctx, normalized)
}

// Stats aggregates run results matching the filter
func (s *RunLogService) Stats(ctx context.Context, filter store.RunFilter) (*model.SyncStats, error) {
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.runLogStore.Stats(ctx, normalized)
}

// normalizeFilter validates the filter at the boundary and applies the
// default limit and offset
func normalizeFilter(filter store.RunFilter) (store.RunFilter, error) {
	if filter.EntityType != nil && !filter.EntityType.Valid() {
		return filter, fmt.Errorf("invalid entity type filter: %q", *filter.EntityType)
	}
	if filter.Status != nil && *filter.Status != "success" && *filter.Status != "failure" {
		return filter, fmt.Errorf("invalid status filter: %q (want success or failure)", *filter.Status)
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return filter, fmt.Errorf("invalid time range: end before start")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return filter, fmt.Errorf("limit and offset must not be negative")
	}

	if filter.Limit == 0 {
		filter.Limit = defaultQueryLimit
	}
	if filter.Limit > maxQueryLimit {
		filter.Limit = maxQueryLimit
	}

	return filter, nil
}
