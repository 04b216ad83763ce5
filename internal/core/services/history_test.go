package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

func TestHistoryService_Recent(t *testing.T) {
	store := &dsMockHistory{recs: []domain.OperationRecord{
		{ID: "1", Operation: domain.OpExtend, DataSourceID: "ds-1", Success: true, CreatedAt: time.Now()},
		{ID: "2", Operation: domain.OpDelete, DataSourceID: "ds-2", Success: false, Status: 404, CreatedAt: time.Now()},
	}}
	svc := NewHistoryService(store)

	recs, err := svc.Recent(context.Background(), 10)

	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestHistoryService_Recent_DefaultLimit(t *testing.T) {
	store := &dsMockHistory{}
	for i := 0; i < 30; i++ {
		store.recs = append(store.recs, domain.OperationRecord{ID: string(rune('a' + i))})
	}
	svc := NewHistoryService(store)

	recs, err := svc.Recent(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, recs, defaultHistoryLimit)
}

func TestHistoryService_NilStore(t *testing.T) {
	svc := NewHistoryService(nil)

	_, err := svc.Recent(context.Background(), 5)

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
