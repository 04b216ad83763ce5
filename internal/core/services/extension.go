package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

// Extend renews a data source's token by resubmitting its registration
// with a fresh nonce and the requested lifetime.
//
// The lifetime is validated before any network call; a zero value
// selects the default. Vendor rejections on the read or the resubmit
// are reported through the result's Success flag together with the
// vendor status and body. The error return is reserved for validation
// failures, token acquisition failures and transport problems.
func (s *DataSourceService) Extend(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error) {
	if s.tokens == nil || s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, fmt.Errorf("%w: data source id is required", domain.ErrInvalidInput)
	}
	if lifetimeMinutes == 0 {
		lifetimeMinutes = domain.DefaultTokenLifetimeMinutes
	}
	if err := domain.ValidateLifetime(lifetimeMinutes); err != nil {
		return nil, err
	}

	token, err := s.tokens.ServiceAppToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring service app token: %w", err)
	}

	logger.Section("Token Extension")
	logger.Debug("fetching data source %s", id)
	ds, err := s.api.Get(ctx, token, id)
	if err != nil {
		if result := extensionFailure(id, lifetimeMinutes, err); result != nil {
			s.recordExtension(ctx, result)
			return result, nil
		}
		return nil, fmt.Errorf("fetching data source %s: %w", id, err)
	}

	payload, err := s.renewalPayload(ds, lifetimeMinutes)
	if err != nil {
		return nil, err
	}

	logger.Debug("resubmitting data source %s with nonce %s", id, payload.Nonce)
	updated, err := s.api.Update(ctx, token, id, *payload)
	if err != nil {
		if result := extensionFailure(id, lifetimeMinutes, err); result != nil {
			s.recordExtension(ctx, result)
			return result, nil
		}
		return nil, fmt.Errorf("updating data source %s: %w", id, err)
	}

	result := &domain.ExtensionResult{
		Success:         true,
		DataSourceID:    id,
		Nonce:           payload.Nonce,
		ExpiryTime:      updated.TokenExpiryTime,
		LifetimeMinutes: lifetimeMinutes,
	}
	s.recordExtension(ctx, result)
	logger.Info("data source %s extended, token expires %s", id, result.ExpiryTime)
	return result, nil
}

// renewalPayload rebuilds the registration payload for a renewal.
// Claims decoded from the current token take precedence for audience,
// subject and schema id; the record's own fields are the fallback when
// the token is absent or unreadable.
func (s *DataSourceService) renewalPayload(ds *domain.DataSource, lifetimeMinutes int) (*domain.DataSourcePayload, error) {
	payload := domain.DataSourcePayload{
		SchemaID:             ds.SchemaID,
		URL:                  ds.URL,
		Audience:             ds.Audience,
		Subject:              ds.Subject,
		Nonce:                uuid.NewString(),
		TokenLifetimeMinutes: lifetimeMinutes,
	}

	if s.decoder != nil && ds.JWSToken != "" {
		claims, err := s.decoder.Decode(ds.JWSToken)
		if err != nil {
			logger.Warn("decoding data source token failed, using stored record fields: %v", err)
		} else {
			if claims.Audience != "" {
				payload.Audience = claims.Audience
			}
			if claims.Subject != "" {
				payload.Subject = claims.Subject
			}
			if claims.SchemaID != "" {
				payload.SchemaID = claims.SchemaID
			}
		}
	}

	if missing := payload.MissingRenewalFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: cannot renew data source %s, missing %s",
			domain.ErrValidation, ds.ID, strings.Join(missing, ", "))
	}
	return &payload, nil
}

// extensionFailure maps a vendor rejection to a failed result. It
// returns nil when the error is not an API status, in which case the
// caller propagates the error as-is.
func extensionFailure(id string, lifetimeMinutes int, err error) *domain.ExtensionResult {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	return &domain.ExtensionResult{
		Success:         false,
		DataSourceID:    id,
		LifetimeMinutes: lifetimeMinutes,
		Status:          apiErr.Status,
		Detail:          apiErr.Body,
	}
}

func (s *DataSourceService) recordExtension(ctx context.Context, result *domain.ExtensionResult) {
	s.persistRecord(ctx, domain.OperationRecord{
		ID:           uuid.NewString(),
		Operation:    domain.OpExtend,
		DataSourceID: result.DataSourceID,
		Success:      result.Success,
		Status:       result.Status,
		Detail:       result.Detail,
		CreatedAt:    time.Now().UTC(),
	})
}
