// Package jws reads claim sets out of data source tokens.
package jws

import (
	"fmt"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// allowedAlgorithms lists the signature algorithms the vendor signs
// data source tokens with. Parsing rejects anything else up front.
var allowedAlgorithms = []gojose.SignatureAlgorithm{gojose.RS256, gojose.ES256}

// Ensure Decoder implements the port.
var _ driven.ClaimsDecoder = (*Decoder)(nil)

// Decoder extracts claims from a compact JWS without verifying the
// signature. The claims only seed renewal payload fields; the vendor
// verifies its own tokens.
type Decoder struct{}

// NewDecoder creates a claims decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// schemaClaims carries the vendor's namespaced schema claim.
type schemaClaims struct {
	SchemaID string `json:"com.cisco.datasource.schema.uuid"`
}

// Decode parses the token and maps its claim set.
func (d *Decoder) Decode(token string) (*domain.TokenClaims, error) {
	parsed, err := gojwt.ParseSigned(token, allowedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("parsing data source token: %w", err)
	}

	var std gojwt.Claims
	var custom schemaClaims
	if err := parsed.UnsafeClaimsWithoutVerification(&std, &custom); err != nil {
		return nil, fmt.Errorf("reading data source token claims: %w", err)
	}

	claims := &domain.TokenClaims{
		Subject:  std.Subject,
		SchemaID: custom.SchemaID,
	}
	if len(std.Audience) > 0 {
		claims.Audience = std.Audience[0]
	}
	if std.IssuedAt != nil {
		claims.IssuedAt = std.IssuedAt.Time()
	}
	if std.Expiry != nil {
		claims.ExpiresAt = std.Expiry.Time()
	}
	return claims, nil
}
