package webex

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Ensure Client implements the data source port.
var _ driven.DataSourceAPI = (*Client)(nil)

type dataSourceList struct {
	Items []domain.DataSource `json:"items"`
}

// List returns every data source visible to the service app.
func (c *Client) List(ctx context.Context, token string) ([]domain.DataSource, error) {
	var list dataSourceList
	status, body, err := c.doJSON(ctx, http.MethodGet, "/dataSources", token, nil, &list)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}
	return list.Items, nil
}

// Get retrieves one data source.
func (c *Client) Get(ctx context.Context, token, id string) (*domain.DataSource, error) {
	var ds domain.DataSource
	status, body, err := c.doJSON(ctx, http.MethodGet, "/dataSources/"+url.PathEscape(id), token, nil, &ds)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}
	return &ds, nil
}

// Create registers a new data source.
func (c *Client) Create(ctx context.Context, token string, payload domain.DataSourcePayload) (*domain.DataSource, error) {
	var ds domain.DataSource
	status, body, err := c.doJSON(ctx, http.MethodPost, "/dataSources", token, payload, &ds)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}
	return &ds, nil
}

// Update replaces a data source document. The vendor treats this as a
// full replacement, so the payload must carry every field plus the
// fresh nonce.
func (c *Client) Update(ctx context.Context, token, id string, payload domain.DataSourcePayload) (*domain.DataSource, error) {
	var ds domain.DataSource
	status, body, err := c.doJSON(ctx, http.MethodPut, "/dataSources/"+url.PathEscape(id), token, payload, &ds)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}
	return &ds, nil
}

// Delete removes a data source registration.
func (c *Client) Delete(ctx context.Context, token, id string) error {
	status, body, err := c.doJSON(ctx, http.MethodDelete, "/dataSources/"+url.PathEscape(id), token, nil, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return apiError(status, body)
	}
	return nil
}
