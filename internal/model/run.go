package model

import "time"

// SyncRunResult is the immutable outcome of one orchestrated sync run.
// Appended to the run log once per run; never mutated or deleted.
type SyncRunResult struct {
	RunID        string
	TenantID     int64
	TenantName   string
	EntityType   EntityType
	Success      bool
	TotalRemote  int
	Inserted     int
	Updated      int
	SoftDeleted  int
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
	ErrorMessage string
}

// SyncStats aggregates run log entries matching a filter
type SyncStats struct {
	TotalRuns             int64
	TotalRecordsProcessed int64
	TotalInserted         int64
	TotalUpdated          int64
	TotalSoftDeleted      int64
	LastRunAt             *time.Time
}

// TenantEntityStats is the per-tenant snapshot shown on the sync dashboard:
// how many records the local copy holds for one entity type and when the
// tenant was last synchronized.
type TenantEntityStats struct {
	TenantID       int64
	TotalRecords   int64
	ActiveRecords  int64
	DeletedRecords int64
	LastSyncedAt   *time.Time
}
