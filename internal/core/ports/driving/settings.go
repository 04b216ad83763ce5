package driving

// SettingsService manages CLI defaults persisted in the settings file.
// Keys use dot notation (for example "extend.lifetime_minutes").
type SettingsService interface {
	// Get returns the formatted value for a known key.
	Get(key string) (string, error)

	// Set validates and persists a value for a known key.
	Set(key, value string) error

	// All returns every known key with its current (or default) value.
	All() map[string]string

	// Keys returns the known keys in display order.
	Keys() []string

	// Path returns the settings file location.
	Path() string

	// CredentialsPath is the local credential file location.
	CredentialsPath() string

	// SecretName is the remote secret identifier, empty for local stores.
	SecretName() string

	// BaseURL overrides the vendor API base URL when non-empty.
	BaseURL() string

	// DefaultDataSourceID is used by extend when no id argument is given.
	DefaultDataSourceID() string

	// DefaultLifetimeMinutes is used by extend when --lifetime is absent.
	DefaultLifetimeMinutes() int

	// RecordsDir is where operation record files are written; empty
	// disables record files.
	RecordsDir() string
}
