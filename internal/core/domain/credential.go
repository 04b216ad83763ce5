package domain

import (
	"fmt"
	"strings"
)

// ServiceAppConfig identifies the service application whose short-lived
// tokens this tool manages. The identity fields are all required; the
// token fields are populated only by manual rotation.
type ServiceAppConfig struct {
	// AppID is the service application identifier (base64 application id).
	AppID string `json:"appId"`

	// ClientID is the service application OAuth client id.
	ClientID string `json:"clientId"`

	// ClientSecret is the service application OAuth client secret.
	ClientSecret string `json:"clientSecret"`

	// TargetOrgID is the customer organization the token is scoped to.
	TargetOrgID string `json:"targetOrgId"`

	// AccessToken is the last service-app access token persisted by a
	// manual rotation. Never written by the orchestrator.
	AccessToken string `json:"accessToken,omitempty"`

	// RefreshToken is the service-app refresh token, when the vendor
	// returned one. Used as the fast path for manual rotation.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenManagerConfig holds the long-lived personal credential and the
// optional OAuth integration used to refresh it automatically.
type TokenManagerConfig struct {
	// PersonalAccessToken authenticates the service-token issuance call.
	PersonalAccessToken string `json:"personalAccessToken"`

	// OAuthClientID identifies the OAuth integration used for refresh.
	OAuthClientID string `json:"oauthClientId,omitempty"`

	// OAuthClientSecret is the OAuth integration secret.
	OAuthClientSecret string `json:"oauthClientSecret,omitempty"`

	// OAuthRefreshToken is exchanged for a new personal access token.
	OAuthRefreshToken string `json:"oauthRefreshToken,omitempty"`
}

// CredentialRecord is the durable credential document shared by all
// store backends.
type CredentialRecord struct {
	ServiceApp   ServiceAppConfig   `json:"serviceApp"`
	TokenManager TokenManagerConfig `json:"tokenManager"`
}

// Validate checks the required fields. The serviceApp identity fields and
// the personal access token must all be present; OAuth fields are optional.
func (r *CredentialRecord) Validate() error {
	var missing []string
	if r.ServiceApp.AppID == "" {
		missing = append(missing, "serviceApp.appId")
	}
	if r.ServiceApp.ClientID == "" {
		missing = append(missing, "serviceApp.clientId")
	}
	if r.ServiceApp.ClientSecret == "" {
		missing = append(missing, "serviceApp.clientSecret")
	}
	if r.ServiceApp.TargetOrgID == "" {
		missing = append(missing, "serviceApp.targetOrgId")
	}
	if r.TokenManager.PersonalAccessToken == "" {
		missing = append(missing, "tokenManager.personalAccessToken")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

// OAuthConfigured reports whether all three OAuth fields are present,
// enabling automatic refresh of the personal access token.
func (r *CredentialRecord) OAuthConfigured() bool {
	return r.TokenManager.OAuthClientID != "" &&
		r.TokenManager.OAuthClientSecret != "" &&
		r.TokenManager.OAuthRefreshToken != ""
}

// OAuthPartial reports whether some but not all OAuth fields are present.
// Partial configuration is a warning, not an error: it disables refresh.
func (r *CredentialRecord) OAuthPartial() bool {
	set := 0
	for _, v := range []string{
		r.TokenManager.OAuthClientID,
		r.TokenManager.OAuthClientSecret,
		r.TokenManager.OAuthRefreshToken,
	} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 3
}

// CredentialUpdate carries the mutable credential fields. Nil pointers
// leave the stored value untouched; stores persist only what is set.
type CredentialUpdate struct {
	PersonalAccessToken    *string
	OAuthClientID          *string
	OAuthClientSecret      *string
	OAuthRefreshToken      *string
	ServiceAppAccessToken  *string
	ServiceAppRefreshToken *string
}

// Empty reports whether the update carries no changes.
func (u CredentialUpdate) Empty() bool {
	return u.PersonalAccessToken == nil &&
		u.OAuthClientID == nil &&
		u.OAuthClientSecret == nil &&
		u.OAuthRefreshToken == nil &&
		u.ServiceAppAccessToken == nil &&
		u.ServiceAppRefreshToken == nil
}

// Apply overwrites the record's fields with the update's non-nil values.
func (u CredentialUpdate) Apply(r *CredentialRecord) {
	if u.PersonalAccessToken != nil {
		r.TokenManager.PersonalAccessToken = *u.PersonalAccessToken
	}
	if u.OAuthClientID != nil {
		r.TokenManager.OAuthClientID = *u.OAuthClientID
	}
	if u.OAuthClientSecret != nil {
		r.TokenManager.OAuthClientSecret = *u.OAuthClientSecret
	}
	if u.OAuthRefreshToken != nil {
		r.TokenManager.OAuthRefreshToken = *u.OAuthRefreshToken
	}
	if u.ServiceAppAccessToken != nil {
		r.ServiceApp.AccessToken = *u.ServiceAppAccessToken
	}
	if u.ServiceAppRefreshToken != nil {
		r.ServiceApp.RefreshToken = *u.ServiceAppRefreshToken
	}
}

// ServiceAppToken is a short-lived bearer token for data-source calls.
// The orchestrator holds it in memory for one execution only.
type ServiceAppToken struct {
	AccessToken  string
	RefreshToken string
}

// TokenPair is the raw result of an OAuth grant exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}
