package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// MockDataSourceService implements driving.DataSourceService for testing.
type MockDataSourceService struct {
	ListFunc   func(ctx context.Context) ([]domain.DataSource, error)
	GetFunc    func(ctx context.Context, id string) (*domain.DataSource, error)
	RemoveFunc func(ctx context.Context, id string) error
	ExtendFunc func(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error)
	ClaimsFunc func(ds *domain.DataSource) (*domain.TokenClaims, error)
}

func (m *MockDataSourceService) List(ctx context.Context) ([]domain.DataSource, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.DataSource{}, nil
}

func (m *MockDataSourceService) Get(ctx context.Context, id string) (*domain.DataSource, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDataSourceService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.DataSource, error) {
	return nil, nil
}

func (m *MockDataSourceService) Update(ctx context.Context, id string, update domain.DataSourceUpdate) (*domain.DataSource, error) {
	return nil, nil
}

func (m *MockDataSourceService) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *MockDataSourceService) Extend(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error) {
	if m.ExtendFunc != nil {
		return m.ExtendFunc(ctx, id, lifetimeMinutes)
	}
	return &domain.ExtensionResult{Success: true, DataSourceID: id}, nil
}

func (m *MockDataSourceService) Claims(ds *domain.DataSource) (*domain.TokenClaims, error) {
	if m.ClaimsFunc != nil {
		return m.ClaimsFunc(ds)
	}
	return nil, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	defaultID       string
	defaultLifetime int
}

func (m *MockSettingsService) Get(key string) (string, error) { return "", nil }
func (m *MockSettingsService) Set(key, value string) error    { return nil }
func (m *MockSettingsService) All() map[string]string         { return map[string]string{} }
func (m *MockSettingsService) Keys() []string                 { return nil }
func (m *MockSettingsService) Path() string                   { return "" }
func (m *MockSettingsService) CredentialsPath() string        { return "" }
func (m *MockSettingsService) SecretName() string             { return "" }
func (m *MockSettingsService) BaseURL() string                { return "" }
func (m *MockSettingsService) DefaultDataSourceID() string    { return m.defaultID }
func (m *MockSettingsService) DefaultLifetimeMinutes() int    { return m.defaultLifetime }
func (m *MockSettingsService) RecordsDir() string             { return "" }

func TestNewPorts(t *testing.T) {
	dataSources := &MockDataSourceService{}
	settings := &MockSettingsService{}

	ports := NewPorts(dataSources, settings)

	require.NotNil(t, ports)
	assert.Equal(t, dataSources, ports.DataSources)
	assert.Equal(t, settings, ports.Settings)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		DataSources: &MockDataSourceService{},
		Settings:    &MockSettingsService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingDataSources(t *testing.T) {
	ports := &Ports{
		DataSources: nil,
		Settings:    &MockSettingsService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingDataSourceService)
}

func TestPorts_Validate_SettingsOptional(t *testing.T) {
	ports := &Ports{
		DataSources: &MockDataSourceService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}
