package store

import (
	"context"
	"errors"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("not found")

// TenantStore provides read access to the tenant registry (contratos table)
type TenantStore interface {
	GetTenant(ctx context.Context, tenantID int64) (*model.Tenant, error)
	ListActiveTenants(ctx context.Context) ([]*model.Tenant, error)

	// Health check
	Ping(ctx context.Context) error
	Close()
}

// LocalStore owns the persisted copy of remote records, one table per
// entity type, keyed (tenant_id, external_id)
type LocalStore interface {
	// LoadSnapshot returns every local record for the pair, soft-deleted rows included
	LoadSnapshot(ctx context.Context, tenantID int64, entityType model.EntityType) ([]model.LocalRecord, error)

	// ApplyBatch applies a reconciliation outcome. Rows are applied
	// sequentially without rollback; on a mid-batch failure the counts
	// applied so far are reported through a *BatchError.
	ApplyBatch(ctx context.Context, tenantID int64, entityType model.EntityType,
		inserts, updates []model.RemoteRecord, softDeletes []string, syncedAt time.Time) (BatchCounts, error)

	// EntityStats returns per-tenant record counts for one entity type
	EntityStats(ctx context.Context, entityType model.EntityType) ([]model.TenantEntityStats, error)
}

// RunLogStore owns the append-only sequence of sync run results
type RunLogStore interface {
	Append(ctx context.Context, result *model.SyncRunResult) error
	Query(ctx context.Context, filter RunFilter) ([]*model.SyncRunResult, error)
	Stats(ctx context.Context, filter RunFilter) (*model.SyncStats, error)
}

// RunLocker provides the exclusive per-(tenant, entity type) run lock.
// TryAcquire is fail-fast: it never blocks waiting for a lock holder.
type RunLocker interface {
	TryAcquire(ctx context.Context, tenantID int64, entityType model.EntityType) (bool, error)
	Release(ctx context.Context, tenantID int64, entityType model.EntityType) error
}

// Cache provides TTL-based caching for tenant lookups
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// BatchCounts reports how many rows an ApplyBatch call wrote
type BatchCounts struct {
	Inserted    int
	Updated     int
	SoftDeleted int
}

// BatchError reports a batch that failed partway through. Already-applied
// rows keep their new state; Counts holds what was applied before the
// failure.
type BatchError struct {
	Counts BatchCounts
	Err    error
}

func (e *BatchError) Error() string {
	return "batch apply failed: " + e.Err.Error()
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// RunFilter narrows run log queries. Nil fields are ignored. Status, when
// set, is one of "success" or "failure".
type RunFilter struct {
	TenantID   *int64
	EntityType *model.EntityType
	Status     *string
	Start      *time.Time
	End        *time.Time
	Limit      int
	Offset     int
}
