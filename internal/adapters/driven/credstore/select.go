package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Options select which backend holds the credential record.
type Options struct {
	// Path points at a local credential file. A ".env" suffix selects
	// the dotenv backend, anything else the JSON file backend.
	Path string
	// SecretName selects the Secrets Manager backend regardless of
	// Path. The SECRET_NAME environment variable does the same, which
	// is how the Lambda handler picks its store.
	SecretName string
}

// Select picks a credential store from the options and environment.
func Select(ctx context.Context, opts Options) (driven.CredentialStore, error) {
	name := opts.SecretName
	if name == "" {
		name = os.Getenv("SECRET_NAME")
	}
	if name != "" {
		return NewSecretsStore(ctx, name)
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		// Local files do not survive Lambda invocations.
		return nil, fmt.Errorf("%w: SECRET_NAME must be set when running in lambda", domain.ErrConfig)
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if strings.HasSuffix(path, ".env") {
		return NewEnvFileStore(path), nil
	}
	return NewFileStore(path), nil
}

// DefaultPath returns the standard credential file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(dir, "byods", "credentials.json")
}
