package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLifetime(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"maximum", 1440, false},
		{"typical", 720, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"above maximum", 1441, true},
		{"way above maximum", 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLifetime(tt.minutes)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateStatus(StatusActive))
	assert.NoError(t, ValidateStatus(StatusDisabled))

	err := ValidateStatus("paused")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDataSourcePayload_MissingRenewalFields(t *testing.T) {
	tests := []struct {
		name     string
		payload  DataSourcePayload
		expected []string
	}{
		{
			name: "complete",
			payload: DataSourcePayload{
				SchemaID: "sid-1",
				URL:      "https://x",
				Audience: "BYODS",
			},
			expected: nil,
		},
		{
			name:     "all missing",
			payload:  DataSourcePayload{},
			expected: []string{"audience", "schemaId", "url"},
		},
		{
			name: "url and schemaId missing",
			payload: DataSourcePayload{
				Audience: "BYODS",
			},
			expected: []string{"schemaId", "url"},
		},
		{
			name: "audience missing",
			payload: DataSourcePayload{
				SchemaID: "sid-1",
				URL:      "https://x",
			},
			expected: []string{"audience"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.payload.MissingRenewalFields())
		})
	}
}

func TestRegistrationInput_Validate(t *testing.T) {
	valid := RegistrationInput{
		SchemaID: "sid-1",
		URL:      "https://example.com/hook",
		Audience: "BYODS",
		Subject:  "subj",
	}
	assert.NoError(t, valid.Validate())

	missing := RegistrationInput{URL: "https://example.com/hook"}
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "schemaId")
	assert.Contains(t, err.Error(), "audience")
	assert.Contains(t, err.Error(), "subject")
	assert.NotContains(t, err.Error(), "url")

	badLifetime := valid
	badLifetime.TokenLifetimeMinutes = 2000
	assert.Error(t, badLifetime.Validate())

	zeroLifetime := valid
	zeroLifetime.TokenLifetimeMinutes = 0
	assert.NoError(t, zeroLifetime.Validate())
}

func TestDataSourceUpdate_Validate(t *testing.T) {
	assert.NoError(t, DataSourceUpdate{}.Validate())

	active := StatusActive
	assert.NoError(t, DataSourceUpdate{Status: &active}.Validate())

	bad := "paused"
	assert.Error(t, DataSourceUpdate{Status: &bad}.Validate())

	lifetime := 90
	assert.NoError(t, DataSourceUpdate{TokenLifetimeMinutes: &lifetime}.Validate())

	tooLong := 9999
	assert.Error(t, DataSourceUpdate{TokenLifetimeMinutes: &tooLong}.Validate())
}
