package domain

import "time"

// Operation names recorded in the history log.
const (
	OpRegister     = "register"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpExtend       = "extend"
	OpTokenRefresh = "token_refresh"
)

// OperationRecord is one entry in the operation history: a mutating call
// against the vendor API and its outcome. History is advisory; failures
// writing it never fail the underlying operation.
type OperationRecord struct {
	ID           string    `json:"id"`
	Operation    string    `json:"operation"`
	DataSourceID string    `json:"dataSourceId,omitempty"`
	Success      bool      `json:"success"`
	Status       int       `json:"status,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
