package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/model"
	"github.com/gestaolabs/sankhya-sync/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunLogService_RecordSwallowsAppendFailure(t *testing.T) {
	runLogStore := new(MockRunLogStore)
	runLogStore.On("Append", mock.Anything, mock.Anything).Return(errors.New("table locked"))

	svc := NewRunLogService(runLogStore, nil, zap.NewNop())

	// Must not panic and has nothing to return; the run already succeeded
	svc.Record(context.Background(), &model.SyncRunResult{
		RunID:      "run-1",
		TenantID:   1,
		EntityType: model.EntityTypePartners,
		Success:    true,
	})

	runLogStore.AssertExpectations(t)
}

func TestRunLogService_QueryAppliesDefaultPagination(t *testing.T) {
	runLogStore := new(MockRunLogStore)
	runLogStore.On("Query", mock.Anything, mock.MatchedBy(func(f store.RunFilter) bool {
		return f.Limit == 100 && f.Offset == 0
	})).Return([]*model.SyncRunResult{}, nil)

	svc := NewRunLogService(runLogStore, nil, zap.NewNop())

	_, err := svc.Query(context.Background(), store.RunFilter{})

	require.NoError(t, err)
	runLogStore.AssertExpectations(t)
}

func TestRunLogService_QueryCapsLimit(t *testing.T) {
	runLogStore := new(MockRunLogStore)
	runLogStore.On("Query", mock.Anything, mock.MatchedBy(func(f store.RunFilter) bool {
		return f.Limit == maxQueryLimit
	})).Return([]*model.SyncRunResult{}, nil)

	svc := NewRunLogService(runLogStore, nil, zap.NewNop())

	_, err := svc.Query(context.Background(), store.RunFilter{Limit: 5000})

	require.NoError(t, err)
	runLogStore.AssertExpectations(t)
}

func TestRunLogService_QueryRejectsInvalidFilter(t *testing.T) {
	svc := NewRunLogService(new(MockRunLogStore), nil, zap.NewNop())
	ctx := context.Background()

	badStatus := "pending"
	_, err := svc.Query(ctx, store.RunFilter{Status: &badStatus})
	assert.Error(t, err)

	badType := model.EntityType("invoices")
	_, err = svc.Query(ctx, store.RunFilter{EntityType: &badType})
	assert.Error(t, err)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.Query(ctx, store.RunFilter{Start: &start, End: &end})
	assert.Error(t, err)

	_, err = svc.Query(ctx, store.RunFilter{Limit: -1})
	assert.Error(t, err)
}

func TestRunLogService_StatsPassesFilterThrough(t *testing.T) {
	runLogStore := new(MockRunLogStore)

	tenantID := int64(7)
	status := "failure"
	expected := &model.SyncStats{TotalRuns: 3, TotalRecordsProcessed: 42}

	runLogStore.On("Stats", mock.Anything, mock.MatchedBy(func(f store.RunFilter) bool {
		return f.TenantID != nil && *f.TenantID == tenantID &&
			f.Status != nil && *f.Status == status
	})).Return(expected, nil)

	svc := NewRunLogService(runLogStore, nil, zap.NewNop())

	stats, err := svc.Stats(context.Background(), store.RunFilter{
		TenantID: &tenantID,
		Status:   &status,
	})

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
	runLogStore.AssertExpectations(t)
}
