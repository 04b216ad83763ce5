package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

// Ensure TokenOrchestrator implements the interface.
var _ driving.TokenService = (*TokenOrchestrator)(nil)

// TokenOrchestrator acquires and caches the service app access token.
//
// Acquisition is a fixed sequence: load credentials, fetch a token with
// the personal access token, and on a 401 refresh the personal token
// once and retry the fetch once. There is no retry loop; a second 401
// is returned to the caller.
type TokenOrchestrator struct {
	store driven.CredentialStore
	api   driven.TokenAPI

	// token caches the fetched pair for the life of the process.
	// The orchestrator is not safe for concurrent use; the CLI and the
	// Lambda handler both drive it from a single goroutine.
	token *domain.ServiceAppToken
}

// NewTokenOrchestrator creates a new token orchestrator.
func NewTokenOrchestrator(store driven.CredentialStore, api driven.TokenAPI) *TokenOrchestrator {
	return &TokenOrchestrator{
		store: store,
		api:   api,
	}
}

// ServiceAppToken returns a service app access token, fetching one on
// first use and reusing it for subsequent calls.
func (o *TokenOrchestrator) ServiceAppToken(ctx context.Context) (string, error) {
	if o.store == nil || o.api == nil {
		return "", domain.ErrNotImplemented
	}
	if o.token != nil && o.token.AccessToken != "" {
		logger.Debug("using cached service app token")
		return o.token.AccessToken, nil
	}

	tok, err := o.acquire(ctx)
	if err != nil {
		return "", err
	}
	o.token = tok
	return tok.AccessToken, nil
}

// acquire runs the fetch, refresh-once, retry-once sequence.
func (o *TokenOrchestrator) acquire(ctx context.Context) (*domain.ServiceAppToken, error) {
	rec, err := o.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials from %s: %w", o.store.Source(), err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.OAuthPartial() {
		logger.Warn("oauth refresh settings are incomplete; automatic token refresh is disabled")
	}

	logger.Debug("fetching service app token for app %s", rec.ServiceApp.AppID)
	tok, err := o.api.FetchServiceAppToken(ctx, rec.TokenManager.PersonalAccessToken, rec.ServiceApp)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, domain.ErrAuth) {
		return nil, fmt.Errorf("fetching service app token: %w", err)
	}

	// The personal access token was rejected. Refresh it once and retry.
	if !rec.OAuthConfigured() {
		return nil, fmt.Errorf("personal access token rejected and automatic refresh is not configured, run setup to enable it: %w", err)
	}

	logger.Info("personal access token rejected, refreshing")
	pair, err := o.api.RefreshPersonalToken(ctx, rec.TokenManager.OAuthClientID, rec.TokenManager.OAuthClientSecret, rec.TokenManager.OAuthRefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			return nil, fmt.Errorf("refresh token no longer valid, re-run setup: %w", err)
		}
		return nil, fmt.Errorf("refreshing personal access token: %w", err)
	}

	update := domain.CredentialUpdate{PersonalAccessToken: &pair.AccessToken}
	if pair.RefreshToken != "" && pair.RefreshToken != rec.TokenManager.OAuthRefreshToken {
		update.OAuthRefreshToken = &pair.RefreshToken
	}
	if err := o.store.Save(ctx, update); err != nil {
		return nil, fmt.Errorf("saving refreshed credentials: %w", err)
	}
	logger.Debug("personal access token refreshed and saved to %s", o.store.Source())

	tok, err = o.api.FetchServiceAppToken(ctx, pair.AccessToken, rec.ServiceApp)
	if err != nil {
		return nil, fmt.Errorf("fetching service app token after refresh: %w", err)
	}
	return tok, nil
}

// RefreshServiceToken rotates the service app token pair and persists
// the result. When a stored service app refresh token exists it is
// exchanged directly; otherwise a fresh pair is fetched through the
// personal access token path.
func (o *TokenOrchestrator) RefreshServiceToken(ctx context.Context) (*domain.ServiceAppToken, error) {
	if o.store == nil || o.api == nil {
		return nil, domain.ErrNotImplemented
	}
	rec, err := o.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials from %s: %w", o.store.Source(), err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if rec.ServiceApp.RefreshToken != "" {
		logger.Debug("refreshing service app token with stored refresh token")
		tok, err := o.api.RefreshServiceAppToken(ctx, rec.ServiceApp.ClientID, rec.ServiceApp.ClientSecret, rec.ServiceApp.RefreshToken)
		if err == nil {
			if err := o.persistServiceTokens(ctx, tok); err != nil {
				return nil, err
			}
			o.token = tok
			return tok, nil
		}
		logger.Warn("service app refresh failed (%v), fetching a fresh token instead", err)
	}

	o.token = nil
	if _, err := o.ServiceAppToken(ctx); err != nil {
		return nil, err
	}
	if err := o.persistServiceTokens(ctx, o.token); err != nil {
		return nil, err
	}
	return o.token, nil
}

func (o *TokenOrchestrator) persistServiceTokens(ctx context.Context, tok *domain.ServiceAppToken) error {
	update := domain.CredentialUpdate{ServiceAppAccessToken: &tok.AccessToken}
	if tok.RefreshToken != "" {
		update.ServiceAppRefreshToken = &tok.RefreshToken
	}
	if err := o.store.Save(ctx, update); err != nil {
		return fmt.Errorf("saving rotated service app tokens: %w", err)
	}
	return nil
}

// ValidatePersonalToken reports whether the stored personal access
// token is currently accepted by the API. Probe transport failures
// report false rather than an error; only missing credentials error.
func (o *TokenOrchestrator) ValidatePersonalToken(ctx context.Context) (bool, error) {
	if o.store == nil || o.api == nil {
		return false, domain.ErrNotImplemented
	}
	rec, err := o.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading credentials from %s: %w", o.store.Source(), err)
	}
	if rec.TokenManager.PersonalAccessToken == "" {
		return false, fmt.Errorf("%w: tokenManager.personalAccessToken is not set", domain.ErrConfig)
	}

	ok, err := o.api.ProbeToken(ctx, rec.TokenManager.PersonalAccessToken)
	if err != nil {
		logger.Debug("token probe failed: %v", err)
		return false, nil
	}
	return ok, nil
}
