package driven

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// CredentialStore persists the long-lived credential record. The three
// backends (JSON file, .env file, remote secret) are interchangeable:
// the orchestrator never knows which one it is talking to.
type CredentialStore interface {
	// Load reads the credential record. Returns an error wrapping
	// domain.ErrConfig when the backing store is missing or malformed.
	// Field completeness is checked by the caller, not the store, so
	// setup can seed a store that is still incomplete.
	Load(ctx context.Context) (*domain.CredentialRecord, error)

	// Save writes back only the fields the update carries. File-backed
	// stores write atomically (temp file then replace) so a crash
	// mid-write never corrupts the existing record.
	Save(ctx context.Context, update domain.CredentialUpdate) error

	// Source returns a human-readable description of the backing store
	// for use in guidance messages.
	Source() string
}
