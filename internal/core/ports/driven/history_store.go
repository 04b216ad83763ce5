package driven

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// HistoryStore persists operation records for the history command.
type HistoryStore interface {
	// Append stores one operation record.
	Append(ctx context.Context, rec domain.OperationRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.OperationRecord, error)

	// Close releases the underlying storage.
	Close() error
}

// RecordWriter writes standalone operation record files, one JSON file
// per mutating operation, for audit trails outside the history database.
type RecordWriter interface {
	// Write persists the record and returns the path it was written to.
	Write(rec domain.OperationRecord) (string, error)
}
