package driven

import (
	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// ClaimsDecoder reads the claim set out of a data source's signed token.
// Decoding never verifies the signature; the claims are used only to
// recover the authoritative audience, subject and schema id.
type ClaimsDecoder interface {
	// Decode parses the compact JWS and returns its claims.
	Decode(token string) (*domain.TokenClaims, error)
}
