package store

import (
	"context"
	"testing"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunLocker_AcquireReleaseCycle(t *testing.T) {
	locker := NewMemoryRunLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, 1, model.EntityTypePartners)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Second acquire for the same pair fails fast
	acquired, err = locker.TryAcquire(ctx, 1, model.EntityTypePartners)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, locker.Release(ctx, 1, model.EntityTypePartners))

	acquired, err = locker.TryAcquire(ctx, 1, model.EntityTypePartners)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryRunLocker_PairsAreIndependent(t *testing.T) {
	locker := NewMemoryRunLocker()
	ctx := context.Background()

	acquired, err := locker.TryAcquire(ctx, 1, model.EntityTypePartners)
	require.NoError(t, err)
	require.True(t, acquired)

	// Same tenant, different entity type
	acquired, err = locker.TryAcquire(ctx, 1, model.EntityTypeTradeTypes)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Different tenant, same entity type
	acquired, err = locker.TryAcquire(ctx, 2, model.EntityTypePartners)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryRunLocker_ReleaseUnheldIsNoop(t *testing.T) {
	locker := NewMemoryRunLocker()

	assert.NoError(t, locker.Release(context.Background(), 9, model.EntityTypePartners))
}
