package driven

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// DataSourceAPI is the vendor's data source CRUD surface. Every call
// carries the service-app bearer token obtained from the orchestrator.
// Non-2xx responses surface as *domain.APIError so callers can report
// the vendor status and body without unwinding.
type DataSourceAPI interface {
	// List returns all data sources visible to the service app.
	List(ctx context.Context, token string) ([]domain.DataSource, error)

	// Get retrieves a single data source by id.
	Get(ctx context.Context, token, id string) (*domain.DataSource, error)

	// Create registers a new data source.
	Create(ctx context.Context, token string, payload domain.DataSourcePayload) (*domain.DataSource, error)

	// Update replaces a data source document. The vendor requires the
	// full payload, nonce included.
	Update(ctx context.Context, token, id string, payload domain.DataSourcePayload) (*domain.DataSource, error)

	// Delete removes a data source registration.
	Delete(ctx context.Context, token, id string) error
}
