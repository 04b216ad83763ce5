package driving

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// HistoryService exposes the operation history.
type HistoryService interface {
	// Recent returns up to limit operation records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.OperationRecord, error)
}
