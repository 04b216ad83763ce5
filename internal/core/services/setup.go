package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

// Ensure SetupService implements the interface.
var _ driving.SetupService = (*SetupService)(nil)

// SetupService runs the one-time OAuth authorization flow that seeds
// the credential store with a refresh token and a personal token.
type SetupService struct {
	store driven.CredentialStore
	api   driven.TokenAPI
}

// NewSetupService creates a new setup service.
func NewSetupService(store driven.CredentialStore, api driven.TokenAPI) *SetupService {
	return &SetupService{
		store: store,
		api:   api,
	}
}

// BeginAuthorization returns the browser URL that starts the
// authorization_code flow and the state value the callback must echo.
func (s *SetupService) BeginAuthorization(clientID, redirectURI string) (string, string, error) {
	if s.api == nil {
		return "", "", domain.ErrNotImplemented
	}
	if clientID == "" {
		return "", "", fmt.Errorf("%w: oauth client id is required", domain.ErrInvalidInput)
	}
	if redirectURI == "" {
		return "", "", fmt.Errorf("%w: redirect uri is required", domain.ErrInvalidInput)
	}

	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("generating state: %w", err)
	}
	return s.api.AuthorizeURL(clientID, redirectURI, state), state, nil
}

// Complete exchanges the authorization code and persists the OAuth
// client credentials, the refresh token and the new personal token.
func (s *SetupService) Complete(ctx context.Context, input driving.SetupInput) error {
	if s.store == nil || s.api == nil {
		return domain.ErrNotImplemented
	}
	if input.ClientID == "" || input.ClientSecret == "" || input.Code == "" {
		return fmt.Errorf("%w: client id, client secret and authorization code are required", domain.ErrInvalidInput)
	}

	pair, err := s.api.ExchangeAuthCode(ctx, input.ClientID, input.ClientSecret, input.Code, input.RedirectURI)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	update := domain.CredentialUpdate{
		PersonalAccessToken: &pair.AccessToken,
		OAuthClientID:       &input.ClientID,
		OAuthClientSecret:   &input.ClientSecret,
	}
	if pair.RefreshToken != "" {
		update.OAuthRefreshToken = &pair.RefreshToken
	}
	if err := s.store.Save(ctx, update); err != nil {
		return fmt.Errorf("saving oauth credentials: %w", err)
	}
	logger.Info("oauth credentials saved to %s", s.store.Source())
	return nil
}
