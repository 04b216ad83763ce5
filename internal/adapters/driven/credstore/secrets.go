package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// SecretsAPI is the slice of the Secrets Manager client the store
// uses. *secretsmanager.Client satisfies it.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
}

// Ensure SecretsStore implements the interface.
var _ driven.CredentialStore = (*SecretsStore)(nil)

// SecretsStore keeps the credential record as a JSON document in an
// AWS Secrets Manager secret. The document layout matches the file
// store, so a secret seeded from a local credentials.json works as is.
type SecretsStore struct {
	client SecretsAPI
	name   string
}

// NewSecretsStore builds a store for the named secret using the
// default AWS credential chain.
func NewSecretsStore(ctx context.Context, name string) (*SecretsStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws configuration: %w", err)
	}
	return &SecretsStore{client: secretsmanager.NewFromConfig(cfg), name: name}, nil
}

// NewSecretsStoreWithClient builds a store around an existing client.
func NewSecretsStoreWithClient(client SecretsAPI, name string) *SecretsStore {
	return &SecretsStore{client: client, name: name}
}

// Load fetches and parses the secret value.
func (s *SecretsStore) Load(ctx context.Context) (*domain.CredentialRecord, error) {
	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var rec domain.CredentialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: parsing secret %s: %v", domain.ErrConfig, s.name, err)
	}
	return &rec, nil
}

// Save applies the update to the current secret value and writes a new
// version. A missing secret value is seeded from a zero record; a
// malformed one is refused rather than overwritten.
func (s *SecretsStore) Save(ctx context.Context, update domain.CredentialUpdate) error {
	if update.Empty() {
		return nil
	}

	rec := &domain.CredentialRecord{}
	data, err := s.fetch(ctx)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, rec); jsonErr != nil {
			return fmt.Errorf("%w: refusing to overwrite malformed secret %s: %v", domain.ErrConfig, s.name, jsonErr)
		}
	case errors.Is(err, domain.ErrConfig):
		// Seeding a new secret value; setup does exactly this.
	default:
		return err
	}

	update.Apply(rec)

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(s.name),
		SecretString: aws.String(string(out)),
	})
	if err != nil {
		return fmt.Errorf("writing secret %s: %w", s.name, err)
	}
	return nil
}

// Source names the secret for guidance messages.
func (s *SecretsStore) Source() string {
	return fmt.Sprintf("secrets manager secret %q", s.name)
}

func (s *SecretsStore) fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: secret %s does not exist", domain.ErrConfig, s.name)
		}
		return nil, fmt.Errorf("reading secret %s: %w", s.name, err)
	}
	if out.SecretString != nil {
		return []byte(aws.ToString(out.SecretString)), nil
	}
	return out.SecretBinary, nil
}
