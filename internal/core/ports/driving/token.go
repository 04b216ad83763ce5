package driving

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// TokenService owns service-app token acquisition for one execution.
type TokenService interface {
	// ServiceAppToken returns a valid service-app bearer token, fetching
	// one on first use and reusing it for the rest of the execution.
	// A 401 from the vendor triggers at most one OAuth refresh followed
	// by a single retry; refreshed personal tokens are persisted.
	ServiceAppToken(ctx context.Context) (string, error)

	// RefreshServiceToken performs an administrative rotation: the stored
	// service-app refresh token first, then the personal-token path.
	// The winning path's tokens are persisted to the credential store.
	RefreshServiceToken(ctx context.Context) (*domain.ServiceAppToken, error)

	// ValidatePersonalToken probes the stored personal access token.
	// The error is non-nil only when the credential store cannot be read.
	ValidatePersonalToken(ctx context.Context) (bool, error)
}
