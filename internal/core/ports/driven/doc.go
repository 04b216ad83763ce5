// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialStore: durable credential record persistence
//   - TokenAPI: vendor token issuance, refresh and probing
//   - DataSourceAPI: vendor data source CRUD
//   - ClaimsDecoder: unverified JWS claim extraction
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: operation history (history command disabled without it)
//   - RecordWriter: per-operation JSON record files
//   - ConfigStore: CLI settings (defaults apply without it)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
