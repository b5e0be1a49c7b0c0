package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRunLocker implements RunLocker using Redis SET NX. The lock carries a
// TTL so a crashed run cannot block its pair forever; the TTL must exceed
// the longest expected run.
type RedisRunLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRunLocker creates a new Redis run locker
func NewRedisRunLocker(host string, port int, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisRunLocker, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// TryAcquire attempts to take the run lock for the pair without blocking.
// Returns false when another run already holds it.
func (l *RedisRunLocker) TryAcquire(ctx context.Context, tenantID int64, entityType model.EntityType) (bool, error) {
	key := l.lockKey(tenantID, entityType)

	acquired, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	if !acquired {
		l.logger.Debug("Run lock already held",
			zap.Int64("tenant_id", tenantID),
			zap.String("entity_type", entityType.String()))
	}

	return acquired, nil
}

// Release drops the run lock for the pair
func (l *RedisRunLocker) Release(ctx context.Context, tenantID int64, entityType model.EntityType) error {
	return l.client.Del(ctx, l.lockKey(tenantID, entityType)).Err()
}

// Ping checks the Redis connection
func (l *RedisRunLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (l *RedisRunLocker) Close() error {
	return l.client.Close()
}

func (l *RedisRunLocker) lockKey(tenantID int64, entityType model.EntityType) string {
	return fmt.Sprintf("sync:lock:%d:%s", tenantID, entityType)
}
