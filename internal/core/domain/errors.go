package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent credential and token lifecycle failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfig indicates the credential store is missing, malformed,
	// or lacks required fields. Fatal, never retried.
	ErrConfig = errors.New("credential configuration invalid")

	// ErrValidation indicates a caller-supplied parameter is out of range
	// or a required data-source field could not be resolved.
	ErrValidation = errors.New("validation failed")

	// ErrAuth indicates the service-token endpoint rejected the personal
	// access token (HTTP 401). Triggers the one-shot refresh-and-retry path.
	ErrAuth = errors.New("authentication failed")

	// ErrAuthExpired indicates the OAuth refresh token itself was rejected.
	// Re-authorization is required; automatic recovery is not possible.
	ErrAuthExpired = errors.New("authorization expired")

	// ErrRefresh indicates a token refresh failed for a reason other than
	// an expired refresh token (network, malformed response, missing token).
	ErrRefresh = errors.New("token refresh failed")

	// ErrAPI indicates a vendor endpoint returned a non-success status
	// outside the 401 cases above. Carried by APIError.
	ErrAPI = errors.New("api request failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a service was wired without a required
	// adapter. Returned by nil-port guards.
	ErrNotImplemented = errors.New("not implemented")
)

// APIError reports a non-2xx vendor API response together with the
// status code and response body the caller needs for diagnostics.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int

	// Body is the response body text, possibly truncated by the adapter.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api request failed: status %d", e.Status)
	}
	return fmt.Sprintf("api request failed: status %d: %s", e.Status, e.Body)
}

// Unwrap allows errors.Is(err, ErrAPI) checks.
func (e *APIError) Unwrap() error {
	return ErrAPI
}
