package services

import (
	"crypto/rand"
	"encoding/base64"
)

// generateState creates a random state parameter for CSRF protection
// during the authorization_code flow.
func generateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
