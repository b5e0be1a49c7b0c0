package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/gestaolabs/sankhya-sync/internal/store"
	"go.uber.org/zap"
)

// TenantService provides cached access to the tenant registry
type TenantService struct {
	tenantStore store.TenantStore
	cache       store.Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantStore store.TenantStore,
	cache store.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantStore: tenantStore,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetTenant retrieves one tenant, using the cache if available
func (s *TenantService) GetTenant(ctx context.Context, tenantID int64) (*model.Tenant, error) {
	cacheKey := s.tenantCacheKey(tenantID)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if tenant, ok := cached.(*model.Tenant); ok {
			return tenant, nil
		}
	}

	tenant, err := s.tenantStore.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, tenant, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache tenant",
			zap.Int64("tenant_id", tenantID),
			zap.Error(err))
	}

	return tenant, nil
}

// ListActiveTenants retrieves every active tenant ordered by id. The list
// is read straight from the store so a sync over all tenants never works
// from a stale set.
func (s *TenantService) ListActiveTenants(ctx context.Context) ([]*model.Tenant, error) {
	tenants, err := s.tenantStore.ListActiveTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	return tenants, nil
}

func (s *TenantService) tenantCacheKey(tenantID int64) string {
	return fmt.Sprintf("tenant:%d", tenantID)
}
