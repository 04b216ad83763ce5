package driving

import (
	"context"
)

// SetupInput carries the values collected by the OAuth setup wizard.
type SetupInput struct {
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
}

// SetupService runs the one-time OAuth authorization flow that seeds the
// credential store with a refresh token and a fresh personal token.
type SetupService interface {
	// BeginAuthorization returns the browser URL that starts the
	// authorization_code flow and the state value the callback must echo.
	BeginAuthorization(clientID, redirectURI string) (url, state string, err error)

	// Complete exchanges the authorization code and persists the OAuth
	// client credentials, refresh token and new personal access token.
	Complete(ctx context.Context, input SetupInput) error
}
