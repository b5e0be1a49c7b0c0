package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresTenantStore implements TenantStore over the contratos table
type PostgresTenantStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresTenantStore creates a new PostgreSQL tenant store
func NewPostgresTenantStore(
	host string,
	port int,
	database, user, password string,
	maxConns, minConns int,
	logger *zap.Logger,
) (*PostgresTenantStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s pool_max_conns=%d pool_min_conns=%d",
		host, port, database, user, password, maxConns, minConns,
	)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresTenantStore{
		pool:   pool,
		logger: logger,
	}, nil
}

// GetPool exposes the connection pool for shared use by the other stores
func (s *PostgresTenantStore) GetPool() *pgxpool.Pool {
	return s.pool
}

// GetTenant retrieves one tenant by its system id
func (s *PostgresTenantStore) GetTenant(ctx context.Context, tenantID int64) (*model.Tenant, error) {
	query := `
		SELECT id_empresa, empresa, cnpj, ativo
		FROM contratos
		WHERE id_empresa = $1
	`

	var tenant model.Tenant
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.TaxID,
		&tenant.Active,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

// ListActiveTenants retrieves every active tenant ordered by id
func (s *PostgresTenantStore) ListActiveTenants(ctx context.Context) ([]*model.Tenant, error) {
	query := `
		SELECT id_empresa, empresa, cnpj, ativo
		FROM contratos
		WHERE ativo = TRUE
		ORDER BY id_empresa
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*model.Tenant, 0)
	for rows.Next() {
		var tenant model.Tenant
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.TaxID, &tenant.Active); err != nil {
			return nil, err
		}
		tenants = append(tenants, &tenant)
	}

	return tenants, rows.Err()
}

// Ping checks the database connection
func (s *PostgresTenantStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PostgresTenantStore) Close() {
	s.pool.Close()
}
