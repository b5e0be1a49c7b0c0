package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRunLogStore implements RunLogStore using PostgreSQL. The
// sync_runs table is append-only: rows are inserted once and never updated.
type PostgresRunLogStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRunLogStore creates a new PostgreSQL run log store
func NewPostgresRunLogStore(pool *pgxpool.Pool) *PostgresRunLogStore {
	return &PostgresRunLogStore{
		pool: pool,
	}
}

// Append inserts one run result
func (s *PostgresRunLogStore) Append(ctx context.Context, result *model.SyncRunResult) error {
	query := `
		INSERT INTO sync_runs (
			run_id, tenant_id, tenant_name, entity_type, success,
			total_remote, inserted, updated, soft_deleted,
			started_at, finished_at, duration_ms, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		result.RunID,
		result.TenantID,
		result.TenantName,
		string(result.EntityType),
		result.Success,
		result.TotalRemote,
		result.Inserted,
		result.Updated,
		result.SoftDeleted,
		result.StartedAt,
		result.FinishedAt,
		result.Duration.Milliseconds(),
		result.ErrorMessage,
	)

	return err
}

// Query returns run results matching the filter, newest first
func (s *PostgresRunLogStore) Query(ctx context.Context, filter RunFilter) ([]*model.SyncRunResult, error) {
	where, args := buildRunFilter(filter)

	query := fmt.Sprintf(`
		SELECT run_id, tenant_id, tenant_name, entity_type, success,
		       total_remote, inserted, updated, soft_deleted,
		       started_at, finished_at, duration_ms, error_message
		FROM sync_runs
		%s
		ORDER BY started_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}
	defer rows.Close()

	results := make([]*model.SyncRunResult, 0)
	for rows.Next() {
		var result model.SyncRunResult
		var entityType string
		var durationMs int64
		if err := rows.Scan(
			&result.RunID,
			&result.TenantID,
			&result.TenantName,
			&entityType,
			&result.Success,
			&result.TotalRemote,
			&result.Inserted,
			&result.Updated,
			&result.SoftDeleted,
			&result.StartedAt,
			&result.FinishedAt,
			&durationMs,
			&result.ErrorMessage,
		); err != nil {
			return nil, err
		}
		result.EntityType = model.EntityType(entityType)
		result.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, &result)
	}

	return results, rows.Err()
}

// Stats aggregates run results matching the filter
func (s *PostgresRunLogStore) Stats(ctx context.Context, filter RunFilter) (*model.SyncStats, error) {
	where, args := buildRunFilter(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_remote), 0),
		       COALESCE(SUM(inserted), 0),
		       COALESCE(SUM(updated), 0),
		       COALESCE(SUM(soft_deleted), 0),
		       MAX(started_at)
		FROM sync_runs
		%s
	`, where)

	var stats model.SyncStats
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalRuns,
		&stats.TotalRecordsProcessed,
		&stats.TotalInserted,
		&stats.TotalUpdated,
		&stats.TotalSoftDeleted,
		&stats.LastRunAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run stats: %w", err)
	}

	return &stats, nil
}

// buildRunFilter turns the optional filter fields into a WHERE clause.
// Placeholders are numbered from $1 in the order the fields are set.
func buildRunFilter(filter RunFilter) (string, []interface{}) {
	conditions := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", len(args)))
	}
	if filter.EntityType != nil {
		args = append(args, string(*filter.EntityType))
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status == "success")
		conditions = append(conditions, fmt.Sprintf("success = $%d", len(args)))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conditions = append(conditions, fmt.Sprintf("started_at <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
