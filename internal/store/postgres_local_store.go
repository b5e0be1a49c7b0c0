package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresLocalStore implements LocalStore using PostgreSQL. Each entity
// type has its own table keyed (tenant_id, external_id) with the payload
// stored as JSONB and soft deletes represented by active = FALSE.
type PostgresLocalStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresLocalStore creates a new PostgreSQL local store
func NewPostgresLocalStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresLocalStore {
	return &PostgresLocalStore{
		pool:   pool,
		logger: logger,
	}
}

// LoadSnapshot loads every local record for one (tenant, entity type) pair,
// soft-deleted rows included
func (s *PostgresLocalStore) LoadSnapshot(ctx context.Context, tenantID int64, entityType model.EntityType) ([]model.LocalRecord, error) {
	query := fmt.Sprintf(`
		SELECT external_id, payload, active, last_synced_at
		FROM %s
		WHERE tenant_id = $1
	`, entityType.Table())

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	defer rows.Close()

	records := make([]model.LocalRecord, 0)
	for rows.Next() {
		var record model.LocalRecord
		if err := rows.Scan(&record.ExternalID, &record.Payload, &record.Active, &record.LastSyncedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ApplyBatch applies a reconciliation outcome row by row. There is no
// transaction around the batch: on failure, rows already applied keep their
// new state and the error carries the partial counts.
func (s *PostgresLocalStore) ApplyBatch(ctx context.Context, tenantID int64, entityType model.EntityType,
	inserts, updates []model.RemoteRecord, softDeletes []string, syncedAt time.Time) (BatchCounts, error) {

	table := entityType.Table()
	var counts BatchCounts

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, external_id, payload, active, last_synced_at)
		VALUES ($1, $2, $3, TRUE, $4)
	`, table)

	for _, record := range inserts {
		if _, err := s.pool.Exec(ctx, insertQuery, tenantID, record.ExternalID, record.Payload, syncedAt); err != nil {
			return counts, &BatchError{Counts: counts, Err: fmt.Errorf("insert %s: %w", record.ExternalID, err)}
		}
		counts.Inserted++
	}

	// Updates also reactivate soft-deleted rows that reappeared remotely
	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET payload = $3, active = TRUE, last_synced_at = $4
		WHERE tenant_id = $1 AND external_id = $2
	`, table)

	for _, record := range updates {
		if _, err := s.pool.Exec(ctx, updateQuery, tenantID, record.ExternalID, record.Payload, syncedAt); err != nil {
			return counts, &BatchError{Counts: counts, Err: fmt.Errorf("update %s: %w", record.ExternalID, err)}
		}
		counts.Updated++
	}

	deleteQuery := fmt.Sprintf(`
		UPDATE %s
		SET active = FALSE, last_synced_at = $3
		WHERE tenant_id = $1 AND external_id = $2
	`, table)

	for _, externalID := range softDeletes {
		if _, err := s.pool.Exec(ctx, deleteQuery, tenantID, externalID, syncedAt); err != nil {
			return counts, &BatchError{Counts: counts, Err: fmt.Errorf("soft delete %s: %w", externalID, err)}
		}
		counts.SoftDeleted++
	}

	return counts, nil
}

// EntityStats returns per-tenant record counts for one entity type
func (s *PostgresLocalStore) EntityStats(ctx context.Context, entityType model.EntityType) ([]model.TenantEntityStats, error) {
	query := fmt.Sprintf(`
		SELECT tenant_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE active),
		       COUNT(*) FILTER (WHERE NOT active),
		       MAX(last_synced_at)
		FROM %s
		GROUP BY tenant_id
		ORDER BY tenant_id
	`, entityType.Table())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity stats: %w", err)
	}
	defer rows.Close()

	stats := make([]model.TenantEntityStats, 0)
	for rows.Next() {
		var st model.TenantEntityStats
		if err := rows.Scan(&st.TenantID, &st.TotalRecords, &st.ActiveRecords, &st.DeletedRecords, &st.LastSyncedAt); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}
