package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCredentialsPath   = "credentials.path"
	keyCredentialsSecret = "credentials.secret_name"
	keyAPIBaseURL        = "api.base_url"
	keyExtendDataSource  = "extend.data_source_id"
	keyExtendLifetime    = "extend.lifetime_minutes"
	keyRecordsDir        = "history.records_dir"
)

// settingsKeys lists the known keys in display order.
var settingsKeys = []string{
	keyCredentialsPath,
	keyCredentialsSecret,
	keyAPIBaseURL,
	keyExtendDataSource,
	keyExtendLifetime,
	keyRecordsDir,
}

// SettingsService manages CLI defaults persisted in the settings file.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get returns the formatted value for a known key.
func (s *SettingsService) Get(key string) (string, error) {
	if s.configStore == nil {
		return "", domain.ErrNotImplemented
	}
	if !knownSettingsKey(key) {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if key == keyExtendLifetime {
		return strconv.Itoa(s.DefaultLifetimeMinutes()), nil
	}
	return s.configStore.GetString(key), nil
}

// Set validates and persists a value for a known key.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if !knownSettingsKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if key == keyExtendLifetime {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		if err := domain.ValidateLifetime(minutes); err != nil {
			return err
		}
		return s.configStore.Set(key, minutes)
	}
	return s.configStore.Set(key, value)
}

// All returns every known key with its current (or default) value.
func (s *SettingsService) All() map[string]string {
	values := make(map[string]string, len(settingsKeys))
	for _, key := range settingsKeys {
		value, err := s.Get(key)
		if err != nil {
			continue
		}
		values[key] = value
	}
	return values
}

// Keys returns the known keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsKeys))
	copy(keys, settingsKeys)
	return keys
}

// Path returns the settings file location.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

// CredentialsPath is the local credential file location.
func (s *SettingsService) CredentialsPath() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.GetString(keyCredentialsPath)
}

// SecretName is the remote secret identifier, empty for local stores.
func (s *SettingsService) SecretName() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.GetString(keyCredentialsSecret)
}

// BaseURL overrides the vendor API base URL when non-empty.
func (s *SettingsService) BaseURL() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.GetString(keyAPIBaseURL)
}

// DefaultDataSourceID is used by extend when no id argument is given.
func (s *SettingsService) DefaultDataSourceID() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.GetString(keyExtendDataSource)
}

// DefaultLifetimeMinutes is used by extend when --lifetime is absent.
// Out-of-range stored values fall back to the built-in default.
func (s *SettingsService) DefaultLifetimeMinutes() int {
	if s.configStore == nil {
		return domain.DefaultTokenLifetimeMinutes
	}
	minutes := s.configStore.GetInt(keyExtendLifetime)
	if minutes == 0 {
		return domain.DefaultTokenLifetimeMinutes
	}
	if err := domain.ValidateLifetime(minutes); err != nil {
		return domain.DefaultTokenLifetimeMinutes
	}
	return minutes
}

// RecordsDir is where operation record files are written.
func (s *SettingsService) RecordsDir() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.GetString(keyRecordsDir)
}

func knownSettingsKey(key string) bool {
	for _, k := range settingsKeys {
		if k == key {
			return true
		}
	}
	return false
}
