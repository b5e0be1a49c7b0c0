package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/store"
	"go.uber.org/zap"
)

// Pinger is any dependency that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker provides health check endpoints
type HealthChecker struct {
	tenantStore store.TenantStore
	locker      Pinger
	logger      *zap.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(tenantStore store.TenantStore, locker Pinger, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		tenantStore: tenantStore,
		locker:      locker,
		logger:      logger,
	}
}

// LivenessHandler handles liveness probe requests
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// ReadinessHandler handles readiness probe requests
func (h *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	// Check PostgreSQL
	if err := h.tenantStore.Ping(ctx); err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = "unhealthy: " + err.Error()
		allHealthy = false
	} else {
		checks["database"] = "healthy"
	}

	// Check Redis (run lock store)
	if err := h.locker.Ping(ctx); err != nil {
		h.logger.Error("Run lock store health check failed", zap.Error(err))
		checks["run_locks"] = "unhealthy: " + err.Error()
		allHealthy = false
	} else {
		checks["run_locks"] = "healthy"
	}

	status := HealthStatus{
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	if allHealthy {
		status.Status = "ready"
		w.WriteHeader(http.StatusOK)
	} else {
		status.Status = "not ready"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
