package driving

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// DataSourceService manages externally registered data sources.
type DataSourceService interface {
	// List returns all data sources visible to the service app.
	List(ctx context.Context) ([]domain.DataSource, error)

	// Get retrieves a data source by id.
	Get(ctx context.Context, id string) (*domain.DataSource, error)

	// Register creates a new data source. A fresh nonce and the default
	// lifetime are applied when the input leaves them empty.
	Register(ctx context.Context, input domain.RegistrationInput) (*domain.DataSource, error)

	// Update changes a data source via read-modify-write, preserving
	// fields the update does not name and rotating the nonce.
	Update(ctx context.Context, id string, update domain.DataSourceUpdate) (*domain.DataSource, error)

	// Remove deletes a data source registration.
	Remove(ctx context.Context, id string) error

	// Extend renews a data source's token by regenerating its nonce and
	// resubmitting the record with the requested lifetime. A lifetime of
	// 0 selects the default. Vendor rejections are reported through the
	// result's Success flag, not through the error return.
	Extend(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error)

	// Claims decodes the data source's signed token without verification.
	Claims(ds *domain.DataSource) (*domain.TokenClaims, error)
}
