package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestaolabs/sankhya-sync/internal/client"
	"github.com/gestaolabs/sankhya-sync/internal/metrics"
	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/gestaolabs/sankhya-sync/internal/store"
	"go.uber.org/zap"
)

// SyncService orchestrates sync runs end to end: fetch the remote snapshot,
// reconcile it against the local copy, apply the diff and record the
// outcome. At most one run per (tenant, entity type) pair is in flight at a
// time; runs for different pairs proceed independently.
type SyncService struct {
	tenantService *TenantService
	remoteSource  client.RemoteSource
	localStore    store.LocalStore
	runLog        *RunLogService
	locker        store.RunLocker
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewSyncService creates a new sync orchestrator
func NewSyncService(
	tenantService *TenantService,
	remoteSource client.RemoteSource,
	localStore store.LocalStore,
	runLog *RunLogService,
	locker store.RunLocker,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		tenantService: tenantService,
		remoteSource:  remoteSource,
		localStore:    localStore,
		runLog:        runLog,
		locker:        locker,
		metrics:       m,
		logger:        logger,
	}
}

// RunSync executes one sync run for a (tenant, entity type) pair and
// returns its result. Fetch and apply failures come back inside the result
// with Success=false; the returned error is reserved for requests the
// engine cannot start at all: ErrUnknownTarget and ErrAlreadyRunning.
func (s *SyncService) RunSync(ctx context.Context, tenantID int64, entityType model.EntityType) (*model.SyncRunResult, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}

	tenant, err := s.tenantService.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %d", ErrUnknownTarget, tenantID)
		}
		return nil, fmt.Errorf("failed to resolve tenant %d: %w", tenantID, err)
	}

	acquired, err := s.locker.TryAcquire(ctx, tenantID, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: tenant %d, entity type %s", ErrAlreadyRunning, tenantID, entityType)
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), tenantID, entityType); err != nil {
			s.logger.Error("Failed to release run lock",
				zap.Int64("tenant_id", tenantID),
				zap.String("entity_type", entityType.String()),
				zap.Error(err))
		}
	}()

	s.metrics.RunStarted()
	defer s.metrics.RunFinished()

	result := s.execute(ctx, tenant, entityType)
	s.runLog.Record(ctx, result)

	status := "success"
	if !result.Success {
		status = "failure"
	}
	s.metrics.RecordRun(entityType.String(), status, result.Duration.Seconds())

	return result, nil
}

// execute performs the fetch, reconcile and apply steps and builds the
// immutable run result. It never returns an error: any failure is folded
// into the result.
func (s *SyncService) execute(ctx context.Context, tenant *model.Tenant, entityType model.EntityType) *model.SyncRunResult {
	startedAt := time.Now()

	result := &model.SyncRunResult{
		RunID:      uuid.NewString(),
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		EntityType: entityType,
		StartedAt:  startedAt,
	}

	s.logger.Info("Starting sync run",
		zap.String("run_id", result.RunID),
		zap.Int64("tenant_id", tenant.ID),
		zap.String("tenant", tenant.Name),
		zap.String("entity_type", entityType.String()))

	remote, err := s.remoteSource.Fetch(ctx, tenant, entityType)
	if err != nil {
		return s.finish(result, 0, store.BatchCounts{}, err)
	}
	result.TotalRemote = len(remote)

	local, err := s.localStore.LoadSnapshot(ctx, tenant.ID, entityType)
	if err != nil {
		return s.finish(result, len(remote), store.BatchCounts{}, fmt.Errorf("failed to load local snapshot: %w", err))
	}

	diff := Reconcile(remote, local)
	if diff.Empty() {
		return s.finish(result, len(remote), store.BatchCounts{}, nil)
	}

	counts, err := s.localStore.ApplyBatch(ctx, tenant.ID, entityType,
		diff.Inserts, diff.Updates, diff.SoftDeletes, startedAt)

	return s.finish(result, len(remote), counts, err)
}

// finish stamps the timing fields and folds an optional failure into the
// result. Applied counts are kept even on partial failure: there is no
// rollback, and the log must reflect what was actually written.
func (s *SyncService) finish(result *model.SyncRunResult, totalRemote int, counts store.BatchCounts, err error) *model.SyncRunResult {
	result.TotalRemote = totalRemote
	result.Inserted = counts.Inserted
	result.Updated = counts.Updated
	result.SoftDeleted = counts.SoftDeleted
	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	result.Success = err == nil

	s.metrics.RecordBatch(result.EntityType.String(), counts.Inserted, counts.Updated, counts.SoftDeleted)

	if err != nil {
		result.ErrorMessage = err.Error()
		s.logger.Warn("Sync run failed",
			zap.String("run_id", result.RunID),
			zap.Int64("tenant_id", result.TenantID),
			zap.String("entity_type", result.EntityType.String()),
			zap.Duration("duration", result.Duration),
			zap.Error(err))
		return result
	}

	s.logger.Info("Sync run completed",
		zap.String("run_id", result.RunID),
		zap.Int64("tenant_id", result.TenantID),
		zap.String("entity_type", result.EntityType.String()),
		zap.Int("total_remote", result.TotalRemote),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("soft_deleted", result.SoftDeleted),
		zap.Duration("duration", result.Duration))

	return result
}

// RunSyncAll runs a sync for every active tenant. Runs execute
// concurrently and independently; one tenant's failure never aborts the
// others. Results come back in tenant-id order once all runs complete.
func (s *SyncService) RunSyncAll(ctx context.Context, entityType model.EntityType) ([]*model.SyncRunResult, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}

	tenants, err := s.tenantService.ListActiveTenants(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(tenants, func(i, j int) bool { return tenants[i].ID < tenants[j].ID })

	s.logger.Info("Starting sync for all tenants",
		zap.String("entity_type", entityType.String()),
		zap.Int("tenants", len(tenants)))

	results := make([]*model.SyncRunResult, len(tenants))
	var wg sync.WaitGroup

	for i, tenant := range tenants {
		wg.Add(1)
		go func(i int, tenant *model.Tenant) {
			defer wg.Done()

			result, err := s.RunSync(ctx, tenant.ID, entityType)
			if err != nil {
				// A run that could not start (e.g. already in flight)
				// still owes the caller a definite outcome
				now := time.Now()
				result = &model.SyncRunResult{
					RunID:        uuid.NewString(),
					TenantID:     tenant.ID,
					TenantName:   tenant.Name,
					EntityType:   entityType,
					Success:      false,
					StartedAt:    now,
					FinishedAt:   now,
					ErrorMessage: err.Error(),
				}
			}
			results[i] = result
		}(i, tenant)
	}

	wg.Wait()

	return results, nil
}

// EntityStats returns the per-tenant dashboard statistics for one entity type
func (s *SyncService) EntityStats(ctx context.Context, entityType model.EntityType) ([]model.TenantEntityStats, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}
	return s.localStore.EntityStats(ctx, entityType)
}
