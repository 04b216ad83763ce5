package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

// Ensure DataSourceService implements the interface.
var _ driving.DataSourceService = (*DataSourceService)(nil)

// DataSourceService manages data source registrations through the
// vendor API. Every call obtains its bearer token from the token
// service, so an expired personal token is recovered transparently.
type DataSourceService struct {
	tokens  driving.TokenService
	api     driven.DataSourceAPI
	decoder driven.ClaimsDecoder

	// history and records are optional audit sinks. Failures to write
	// them are warned about, never propagated.
	history driven.HistoryStore
	records driven.RecordWriter
}

// NewDataSourceService creates a new data source service. The history
// store and record writer may be nil.
func NewDataSourceService(tokens driving.TokenService, api driven.DataSourceAPI, decoder driven.ClaimsDecoder, history driven.HistoryStore, records driven.RecordWriter) *DataSourceService {
	return &DataSourceService{
		tokens:  tokens,
		api:     api,
		decoder: decoder,
		history: history,
		records: records,
	}
}

// List returns all data sources visible to the service app.
func (s *DataSourceService) List(ctx context.Context) ([]domain.DataSource, error) {
	if s.tokens == nil || s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring service app token: %w", err)
	}
	return s.api.List(ctx, token)
}

// Get retrieves a data source by id.
func (s *DataSourceService) Get(ctx context.Context, id string) (*domain.DataSource, error) {
	if s.tokens == nil || s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, fmt.Errorf("%w: data source id is required", domain.ErrInvalidInput)
	}
	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring service app token: %w", err)
	}
	return s.api.Get(ctx, token, id)
}

// Register creates a new data source. A fresh nonce is always
// generated; a zero lifetime selects the registration default.
func (s *DataSourceService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.DataSource, error) {
	if s.tokens == nil || s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	lifetime := input.TokenLifetimeMinutes
	if lifetime == 0 {
		lifetime = domain.DefaultRegistrationLifetimeMinutes
	}
	payload := domain.DataSourcePayload{
		SchemaID:             input.SchemaID,
		URL:                  input.URL,
		Audience:             input.Audience,
		Subject:              input.Subject,
		Nonce:                uuid.NewString(),
		TokenLifetimeMinutes: lifetime,
	}

	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring service app token: %w", err)
	}

	ds, err := s.api.Create(ctx, token, payload)
	if err != nil {
		s.record(ctx, domain.OpRegister, "", err)
		return nil, fmt.Errorf("registering data source: %w", err)
	}
	s.record(ctx, domain.OpRegister, ds.ID, nil)
	return ds, nil
}

// Update changes a data source via read-modify-write. The vendor
// requires the full document on update, so unchanged fields are carried
// over from the current record and the nonce is rotated.
func (s *DataSourceService) Update(ctx context.Context, id string, update domain.DataSourceUpdate) (*domain.DataSource, error) {
	if s.tokens == nil || s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, fmt.Errorf("%w: data source id is required", domain.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: update names no fields", domain.ErrInvalidInput)
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring service app token: %w", err)
	}

	current, err := s.api.Get(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("fetching data source %s: %w", id, err)
	}

	payload := domain.DataSourcePayload{
		SchemaID:             current.SchemaID,
		URL:                  current.URL,
		Audience:             current.Audience,
		Subject:              current.Subject,
		Nonce:                uuid.NewString(),
		TokenLifetimeMinutes: current.TokenLifetimeMinutes,
		Status:               current.Status,
		ErrorMessage:         current.ErrorMessage,
	}
	if update.URL != nil {
		payload.URL = *update.URL
	}
	if update.Status != nil {
		payload.Status = *update.Status
	}
	if update.ErrorMessage != nil {
		payload.ErrorMessage = *update.ErrorMessage
	}
	if update.TokenLifetimeMinutes != nil {
		payload.TokenLifetimeMinutes = *update.TokenLifetimeMinutes
	}

	ds, err := s.api.Update(ctx, token, id, payload)
	if err != nil {
		s.record(ctx, domain.OpUpdate, id, err)
		return nil, fmt.Errorf("updating data source %s: %w", id, err)
	}
	s.record(ctx, domain.OpUpdate, id, nil)
	return ds, nil
}

// Remove deletes a data source registration.
func (s *DataSourceService) Remove(ctx context.Context, id string) error {
	if s.tokens == nil || s.api == nil {
		return domain.ErrNotImplemented
	}
	if id == "" {
		return fmt.Errorf("%w: data source id is required", domain.ErrInvalidInput)
	}
	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return fmt.Errorf("acquiring service app token: %w", err)
	}
	if err := s.api.Delete(ctx, token, id); err != nil {
		s.record(ctx, domain.OpDelete, id, err)
		return fmt.Errorf("deleting data source %s: %w", id, err)
	}
	s.record(ctx, domain.OpDelete, id, nil)
	return nil
}

// Claims decodes the data source's signed token without verifying it.
func (s *DataSourceService) Claims(ds *domain.DataSource) (*domain.TokenClaims, error) {
	if s.decoder == nil {
		return nil, domain.ErrNotImplemented
	}
	if ds == nil || ds.JWSToken == "" {
		return nil, fmt.Errorf("%w: data source has no token", domain.ErrValidation)
	}
	return s.decoder.Decode(ds.JWSToken)
}

// record persists an audit trail entry for a mutating operation.
// Audit failures never fail the operation itself.
func (s *DataSourceService) record(ctx context.Context, op, dataSourceID string, opErr error) {
	rec := domain.OperationRecord{
		ID:           uuid.NewString(),
		Operation:    op,
		DataSourceID: dataSourceID,
		Success:      opErr == nil,
		CreatedAt:    time.Now().UTC(),
	}
	if opErr != nil {
		rec.Detail = opErr.Error()
		var apiErr *domain.APIError
		if errors.As(opErr, &apiErr) {
			rec.Status = apiErr.Status
			rec.Detail = apiErr.Body
		}
	}
	s.persistRecord(ctx, rec)
}

func (s *DataSourceService) persistRecord(ctx context.Context, rec domain.OperationRecord) {
	if s.records != nil {
		if path, err := s.records.Write(rec); err != nil {
			logger.Warn("writing operation record: %v", err)
		} else {
			logger.Debug("operation record written to %s", path)
		}
	}
	if s.history != nil {
		if err := s.history.Append(ctx, rec); err != nil {
			logger.Warn("appending history record: %v", err)
		}
	}
}
