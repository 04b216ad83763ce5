package domain

import (
	"fmt"
	"strings"
	"time"
)

// Token lifetime bounds enforced by the vendor API, in minutes.
const (
	MinTokenLifetimeMinutes = 1
	MaxTokenLifetimeMinutes = 1440

	// DefaultTokenLifetimeMinutes is used when an extension request
	// does not specify a lifetime.
	DefaultTokenLifetimeMinutes = 60

	// DefaultRegistrationLifetimeMinutes is used for new registrations.
	DefaultRegistrationLifetimeMinutes = 1440
)

// Data source status values accepted by the vendor API.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// DataSource is an externally registered data source record as the
// vendor API returns it.
type DataSource struct {
	ID                   string `json:"id,omitempty"`
	SchemaID             string `json:"schemaId,omitempty"`
	OrgID                string `json:"orgId,omitempty"`
	ApplicationID        string `json:"applicationId,omitempty"`
	Audience             string `json:"audience,omitempty"`
	Subject              string `json:"subject,omitempty"`
	URL                  string `json:"url,omitempty"`
	Nonce                string `json:"nonce,omitempty"`
	Status               string `json:"status,omitempty"`
	ErrorMessage         string `json:"errorMessage,omitempty"`
	TokenLifetimeMinutes int    `json:"tokenLifetimeMinutes,omitempty"`
	TokenExpiryTime      string `json:"tokenExpiryTime,omitempty"`
	JWSToken             string `json:"jwsToken,omitempty"`
	CreatedAt            string `json:"createdAt,omitempty"`
}

// DataSourcePayload is the body sent on create and update calls.
// The vendor requires the full document on update, nonce included.
type DataSourcePayload struct {
	SchemaID             string `json:"schemaId"`
	URL                  string `json:"url"`
	Audience             string `json:"audience"`
	Subject              string `json:"subject"`
	Nonce                string `json:"nonce"`
	TokenLifetimeMinutes int    `json:"tokenLifetimeMinutes"`
	Status               string `json:"status,omitempty"`
	ErrorMessage         string `json:"errorMessage,omitempty"`
}

// MissingRenewalFields returns the payload fields the vendor rejects when
// empty, in the order audience, schemaId, url. An empty result means the
// payload is safe to submit.
func (p DataSourcePayload) MissingRenewalFields() []string {
	var missing []string
	if p.Audience == "" {
		missing = append(missing, "audience")
	}
	if p.SchemaID == "" {
		missing = append(missing, "schemaId")
	}
	if p.URL == "" {
		missing = append(missing, "url")
	}
	return missing
}

// ValidateLifetime checks a token lifetime against the vendor bounds.
func ValidateLifetime(minutes int) error {
	if minutes < MinTokenLifetimeMinutes || minutes > MaxTokenLifetimeMinutes {
		return fmt.Errorf("%w: tokenLifetimeMinutes must be between %d and %d, got %d",
			ErrValidation, MinTokenLifetimeMinutes, MaxTokenLifetimeMinutes, minutes)
	}
	return nil
}

// ValidateStatus checks a data source status value.
func ValidateStatus(status string) error {
	switch status {
	case StatusActive, StatusDisabled:
		return nil
	default:
		return fmt.Errorf("%w: status must be %q or %q, got %q",
			ErrValidation, StatusActive, StatusDisabled, status)
	}
}

// RegistrationInput describes a new data source registration.
// Nonce and TokenLifetimeMinutes are optional; defaults are applied
// by the service.
type RegistrationInput struct {
	SchemaID             string
	URL                  string
	Audience             string
	Subject              string
	Nonce                string
	TokenLifetimeMinutes int
}

// Validate checks the required registration fields and lifetime bounds.
func (in RegistrationInput) Validate() error {
	var missing []string
	if in.SchemaID == "" {
		missing = append(missing, "schemaId")
	}
	if in.URL == "" {
		missing = append(missing, "url")
	}
	if in.Audience == "" {
		missing = append(missing, "audience")
	}
	if in.Subject == "" {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrValidation, strings.Join(missing, ", "))
	}
	if in.TokenLifetimeMinutes != 0 {
		return ValidateLifetime(in.TokenLifetimeMinutes)
	}
	return nil
}

// DataSourceUpdate carries the fields an update may change. Nil pointers
// leave the stored value untouched; the service rereads the record and
// submits the full payload.
type DataSourceUpdate struct {
	URL                  *string
	Status               *string
	ErrorMessage         *string
	TokenLifetimeMinutes *int
}

// Empty reports whether the update names no fields.
func (u DataSourceUpdate) Empty() bool {
	return u.URL == nil && u.Status == nil && u.ErrorMessage == nil && u.TokenLifetimeMinutes == nil
}

// Validate checks the update's field values.
func (u DataSourceUpdate) Validate() error {
	if u.Status != nil {
		if err := ValidateStatus(*u.Status); err != nil {
			return err
		}
	}
	if u.TokenLifetimeMinutes != nil {
		if err := ValidateLifetime(*u.TokenLifetimeMinutes); err != nil {
			return err
		}
	}
	return nil
}

// TokenClaims is the unverified claim set decoded from a data source's
// signed token. The signed token is authoritative for audience, subject
// and schema id; stored record fields are the fallback.
type TokenClaims struct {
	Audience  string
	Subject   string
	SchemaID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExtensionResult reports the outcome of a token extension. Callers
// branch on Success; Status and Detail carry the vendor response when
// the extension was rejected.
type ExtensionResult struct {
	Success         bool
	DataSourceID    string
	Nonce           string
	ExpiryTime      string
	LifetimeMinutes int
	Status          int
	Detail          string
}
