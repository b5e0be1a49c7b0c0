package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/gestaolabs/sankhya-sync/internal/model"
)

// MemoryRunLocker implements RunLocker with an in-process map. Suitable for
// a single daemon instance and for tests.
type MemoryRunLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewMemoryRunLocker creates a new in-memory run locker
func NewMemoryRunLocker() *MemoryRunLocker {
	return &MemoryRunLocker{
		held: make(map[string]bool),
	}
}

// TryAcquire attempts to take the run lock without blocking
func (l *MemoryRunLocker) TryAcquire(ctx context.Context, tenantID int64, entityType model.EntityType) (bool, error) {
	key := lockKey(tenantID, entityType)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

// Release drops the run lock for the pair
func (l *MemoryRunLocker) Release(ctx context.Context, tenantID int64, entityType model.EntityType) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, lockKey(tenantID, entityType))
	return nil
}

func lockKey(tenantID int64, entityType model.EntityType) string {
	return fmt.Sprintf("%d:%s", tenantID, entityType)
}
