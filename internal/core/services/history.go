package services

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// defaultHistoryLimit bounds history queries with no explicit limit.
const defaultHistoryLimit = 20

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes recorded operations.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{
		store: store,
	}
}

// Recent returns up to limit operation records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.OperationRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.Recent(ctx, limit)
}
