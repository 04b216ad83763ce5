// Package domain defines the core business entities for byods.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CredentialRecord: The persisted OAuth and service-app credentials
//   - DataSource: A registered data source and its token state
//   - TokenClaims: Claims decoded from a data source's JWS token
//   - OperationRecord: An audit entry for a mutating operation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
