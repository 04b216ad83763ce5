package driven

import (
	"context"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// TokenAPI issues, refreshes and probes vendor tokens.
type TokenAPI interface {
	// FetchServiceAppToken exchanges a personal access token for a
	// short-lived service-app token, scoped by the service app identity.
	// Returns an error wrapping domain.ErrAuth on HTTP 401 (the personal
	// token was rejected), or a *domain.APIError for any other non-2xx.
	FetchServiceAppToken(ctx context.Context, personalToken string, app domain.ServiceAppConfig) (*domain.ServiceAppToken, error)

	// RefreshPersonalToken performs a refresh_token grant against the
	// OAuth token endpoint. Returns an error wrapping
	// domain.ErrAuthExpired on HTTP 401 (the refresh token itself has
	// expired) and domain.ErrRefresh for any other failure.
	RefreshPersonalToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenPair, error)

	// RefreshServiceAppToken performs a refresh_token grant using the
	// service app's own client credentials and refresh token. Returns an
	// error wrapping domain.ErrRefresh on any failure; callers fall back
	// to the personal-token path.
	RefreshServiceAppToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.ServiceAppToken, error)

	// ExchangeAuthCode performs an authorization_code grant, used once
	// during interactive OAuth setup.
	ExchangeAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*domain.TokenPair, error)

	// AuthorizeURL builds the browser URL that starts the
	// authorization_code flow.
	AuthorizeURL(clientID, redirectURI, state string) string

	// ProbeToken checks token validity with a lightweight identity call.
	// True only on HTTP 200; false with a nil error on any other status.
	// The error is non-nil only for transport failures.
	ProbeToken(ctx context.Context, token string) (bool, error)
}
