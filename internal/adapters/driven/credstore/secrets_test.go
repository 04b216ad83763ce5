package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

type fakeSecretsAPI struct {
	value    *string
	binary   []byte
	getErr   error
	putErr   error
	getCalls int
	puts     []string
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.value == nil && f.binary == nil {
		return nil, &types.ResourceNotFoundException{Message: aws.String("secret not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value, SecretBinary: f.binary}, nil
}

func (f *fakeSecretsAPI) PutSecretValue(_ context.Context, params *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, aws.ToString(params.SecretString))
	f.value = params.SecretString
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func secretJSON(t *testing.T, rec domain.CredentialRecord) *string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return aws.String(string(data))
}

func TestSecretsStore_Load(t *testing.T) {
	api := &fakeSecretsAPI{value: secretJSON(t, domain.CredentialRecord{
		ServiceApp:   domain.ServiceAppConfig{AppID: "app-1", ClientID: "client-1"},
		TokenManager: domain.TokenManagerConfig{PersonalAccessToken: "personal-token"},
	})}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	rec, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "app-1", rec.ServiceApp.AppID)
	assert.Equal(t, "personal-token", rec.TokenManager.PersonalAccessToken)
}

func TestSecretsStore_LoadMissingSecret(t *testing.T) {
	store := NewSecretsStoreWithClient(&fakeSecretsAPI{}, "byods/credentials")

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestSecretsStore_LoadMalformedSecret(t *testing.T) {
	api := &fakeSecretsAPI{value: aws.String("{not json")}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestSecretsStore_LoadBinarySecret(t *testing.T) {
	api := &fakeSecretsAPI{binary: []byte(`{"serviceApp":{"appId":"app-1"}}`)}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	rec, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "app-1", rec.ServiceApp.AppID)
}

func TestSecretsStore_LoadTransportError(t *testing.T) {
	api := &fakeSecretsAPI{getErr: errors.New("throttled")}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	_, err := store.Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConfig)
}

func TestSecretsStore_SaveAppliesUpdate(t *testing.T) {
	api := &fakeSecretsAPI{value: secretJSON(t, domain.CredentialRecord{
		ServiceApp:   domain.ServiceAppConfig{AppID: "app-1", AccessToken: "old-access"},
		TokenManager: domain.TokenManagerConfig{OAuthClientID: "oauth-client"},
	})}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	err := store.Save(context.Background(), domain.CredentialUpdate{
		ServiceAppAccessToken: strPtr("new-access"),
	})

	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	var rec domain.CredentialRecord
	require.NoError(t, json.Unmarshal([]byte(api.puts[0]), &rec))
	assert.Equal(t, "new-access", rec.ServiceApp.AccessToken)
	assert.Equal(t, "app-1", rec.ServiceApp.AppID)
	assert.Equal(t, "oauth-client", rec.TokenManager.OAuthClientID)
}

func TestSecretsStore_SaveSeedsMissingSecret(t *testing.T) {
	api := &fakeSecretsAPI{}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	err := store.Save(context.Background(), domain.CredentialUpdate{
		PersonalAccessToken: strPtr("personal-token"),
	})

	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	var rec domain.CredentialRecord
	require.NoError(t, json.Unmarshal([]byte(api.puts[0]), &rec))
	assert.Equal(t, "personal-token", rec.TokenManager.PersonalAccessToken)
}

func TestSecretsStore_SaveRefusesMalformedSecret(t *testing.T) {
	api := &fakeSecretsAPI{value: aws.String("{not json")}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	err := store.Save(context.Background(), domain.CredentialUpdate{
		PersonalAccessToken: strPtr("personal-token"),
	})

	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Empty(t, api.puts)
}

func TestSecretsStore_SaveEmptyUpdate(t *testing.T) {
	api := &fakeSecretsAPI{}
	store := NewSecretsStoreWithClient(api, "byods/credentials")

	require.NoError(t, store.Save(context.Background(), domain.CredentialUpdate{}))

	assert.Zero(t, api.getCalls)
	assert.Empty(t, api.puts)
}

func TestSecretsStore_Source(t *testing.T) {
	store := NewSecretsStoreWithClient(&fakeSecretsAPI{}, "byods/credentials")
	assert.Equal(t, `secrets manager secret "byods/credentials"`, store.Source())
}
