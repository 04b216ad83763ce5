package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values          map[string]string
	keys            []string
	sets            map[string]string
	setErr          error
	path            string
	credentialsPath string
	secretName      string
	baseURL         string
	defaultID       string
	defaultLifetime int
	recordsDir      string
}

func (m *mockSettingsService) Get(key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.sets == nil {
		m.sets = make(map[string]string)
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) All() map[string]string {
	return m.values
}

func (m *mockSettingsService) Keys() []string {
	return m.keys
}

func (m *mockSettingsService) Path() string {
	return m.path
}

func (m *mockSettingsService) CredentialsPath() string {
	return m.credentialsPath
}

func (m *mockSettingsService) SecretName() string {
	return m.secretName
}

func (m *mockSettingsService) BaseURL() string {
	return m.baseURL
}

func (m *mockSettingsService) DefaultDataSourceID() string {
	return m.defaultID
}

func (m *mockSettingsService) DefaultLifetimeMinutes() int {
	return m.defaultLifetime
}

func (m *mockSettingsService) RecordsDir() string {
	return m.recordsDir
}

func setupSettingsTest(mock *mockSettingsService) func() {
	oldSettings := settingsService
	settingsService = mock
	return func() {
		settingsService = oldSettings
	}
}

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShowCmd_PrintsAllKeys(t *testing.T) {
	cleanup := setupSettingsTest(&mockSettingsService{
		path: "/home/u/.config/byods/config.toml",
		keys: []string{"api.base_url", "extend.lifetime_minutes"},
		values: map[string]string{
			"api.base_url":            "",
			"extend.lifetime_minutes": "60",
		},
	})
	defer cleanup()

	out, err := execute(t, "settings", "show")

	assert.NoError(t, err)
	assert.Contains(t, out, "/home/u/.config/byods/config.toml")
	assert.Contains(t, out, "extend.lifetime_minutes")
	assert.Contains(t, out, "60")
	assert.Contains(t, out, "(not set)")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupSettingsTest(&mockSettingsService{
		path:   "/tmp/config.toml",
		keys:   []string{"api.base_url"},
		values: map[string]string{"api.base_url": "https://example.test/v1"},
	})
	defer cleanup()

	out, err := execute(t, "settings")

	assert.NoError(t, err)
	assert.Contains(t, out, "https://example.test/v1")
}

func TestSettingsGetCmd_PrintsValue(t *testing.T) {
	cleanup := setupSettingsTest(&mockSettingsService{
		values: map[string]string{"extend.data_source_id": "ds-42"},
	})
	defer cleanup()

	out, err := execute(t, "settings", "get", "extend.data_source_id")

	assert.NoError(t, err)
	assert.Contains(t, out, "ds-42")
}

func TestSettingsGetCmd_UnknownKey(t *testing.T) {
	cleanup := setupSettingsTest(&mockSettingsService{})
	defer cleanup()

	_, err := execute(t, "settings", "get", "no.such.key")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_PersistsValue(t *testing.T) {
	mock := &mockSettingsService{}
	cleanup := setupSettingsTest(mock)
	defer cleanup()

	out, err := execute(t, "settings", "set", "extend.lifetime_minutes", "240")

	assert.NoError(t, err)
	assert.Contains(t, out, "Set extend.lifetime_minutes = 240")
	assert.Equal(t, "240", mock.sets["extend.lifetime_minutes"])
}

func TestSettingsSetCmd_ValidationError(t *testing.T) {
	cleanup := setupSettingsTest(&mockSettingsService{
		setErr: domain.ValidateLifetime(9000),
	})
	defer cleanup()

	_, err := execute(t, "settings", "set", "extend.lifetime_minutes", "9000")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldSettings := settingsService
	settingsService = nil
	defer func() { settingsService = oldSettings }()

	_, err := execute(t, "settings", "show")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
