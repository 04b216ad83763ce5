package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// MockDataSourceService implements driving.DataSourceService for testing.
type MockDataSourceService struct {
	RemoveFunc func(ctx context.Context, id string) error
	ExtendFunc func(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error)
	ClaimsFunc func(ds *domain.DataSource) (*domain.TokenClaims, error)
}

func (m *MockDataSourceService) List(ctx context.Context) ([]domain.DataSource, error) {
	return []domain.DataSource{}, nil
}

func (m *MockDataSourceService) Get(ctx context.Context, id string) (*domain.DataSource, error) {
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
	return nil, errors.New("no token")
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
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
func (m *MockSettingsService) DefaultDataSourceID() string    { return "" }
func (m *MockSettingsService) DefaultLifetimeMinutes() int    { return m.defaultLifetime }
func (m *MockSettingsService) RecordsDir() string             { return "" }

func testSource() domain.DataSource {
	return domain.DataSource{
		ID:                   "ds-1",
		SchemaID:             "schema-1",
		URL:                  "https://example.com/hook",
		Audience:             "receiver",
		Subject:              "telemetry",
		Status:               "active",
		TokenLifetimeMinutes: 60,
		TokenExpiryTime:      "2024-06-01T12:00:00Z",
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mock := &MockDataSourceService{}

	view := NewView(s, mock, &MockSettingsService{})

	require.NotNil(t, view)
	require.NotNil(t, view.lifetime)
	assert.Equal(t, OptionExtend, view.selected)
	assert.Nil(t, view.source)
}

func TestView_SetSource(t *testing.T) {
	mock := &MockDataSourceService{
		ClaimsFunc: func(ds *domain.DataSource) (*domain.TokenClaims, error) {
			return &domain.TokenClaims{
				Audience:  "claimed-audience",
				Subject:   "claimed-subject",
				SchemaID:  "claimed-schema",
				ExpiresAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock, nil)
	view.err = errors.New("stale")
	view.editing = true

	view.SetSource(testSource())

	require.NotNil(t, view.source)
	assert.Equal(t, "ds-1", view.source.ID)
	require.NotNil(t, view.claims)
	assert.Equal(t, "claimed-audience", view.claims.Audience)
	assert.NoError(t, view.err)
	assert.False(t, view.Editing())
	assert.Equal(t, OptionExtend, view.SelectedOption())
}

func TestView_SetSource_ClaimsUndecodable(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)

	view.SetSource(testSource())

	require.NotNil(t, view.source)
	assert.Nil(t, view.claims)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, nil)

	assert.Nil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil, nil)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
}

func TestView_KeyMsg_Navigate(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	view.Update(down)
	assert.Equal(t, OptionDelete, view.selected)
	view.Update(down)
	assert.Equal(t, OptionBack, view.selected)

	// Boundary
	view.Update(down)
	assert.Equal(t, OptionBack, view.selected)

	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	view.Update(up)
	assert.Equal(t, OptionDelete, view.selected)
}

func TestView_KeyMsg_E_BeginsEditing(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}
	_, cmd := view.Update(msg)

	assert.True(t, view.Editing())
	assert.True(t, view.lifetime.Focused())
	assert.NotNil(t, cmd)
}

func TestView_KeyMsg_Esc_NavigatesBack(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	_, cmd := view.Update(msg)

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSources, changed.View)
}

func TestView_Editing_TypeAndSubmit(t *testing.T) {
	var gotID string
	var gotMinutes int
	mock := &MockDataSourceService{
		ExtendFunc: func(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error) {
			gotID = id
			gotMinutes = lifetimeMinutes
			return &domain.ExtensionResult{Success: true, DataSourceID: id, ExpiryTime: "later"}, nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock, nil)
	view.SetSource(testSource())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, view.Editing())
	assert.True(t, view.extending)
	require.NotNil(t, cmd)

	result := cmd()
	completed, ok := result.(messages.ExtensionCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, "ds-1", gotID)
	assert.Equal(t, 90, gotMinutes)
}

func TestView_Editing_EmptySubmit_UsesSettingsDefault(t *testing.T) {
	var gotMinutes int
	mock := &MockDataSourceService{
		ExtendFunc: func(ctx context.Context, id string, lifetimeMinutes int) (*domain.ExtensionResult, error) {
			gotMinutes = lifetimeMinutes
			return &domain.ExtensionResult{Success: true}, nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock, &MockSettingsService{defaultLifetime: 240})
	view.SetSource(testSource())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 240, gotMinutes)
}

func TestView_Editing_EscCancels(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, view.Editing())
	assert.False(t, view.lifetime.Focused())
	assert.Nil(t, cmd)
}

func TestView_Update_ExtensionCompleted_Success(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())
	view.extending = true

	msg := messages.ExtensionCompleted{Result: &domain.ExtensionResult{
		Success:         true,
		DataSourceID:    "ds-1",
		Nonce:           "fresh-nonce",
		ExpiryTime:      "2024-06-01T18:00:00Z",
		LifetimeMinutes: 360,
	}}
	view.Update(msg)

	assert.False(t, view.extending)
	require.NotNil(t, view.result)
	assert.Equal(t, "fresh-nonce", view.source.Nonce)
	assert.Equal(t, "2024-06-01T18:00:00Z", view.source.TokenExpiryTime)
	assert.Equal(t, 360, view.source.TokenLifetimeMinutes)
}

func TestView_Update_ExtensionCompleted_Rejected(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())
	original := view.source.TokenExpiryTime

	msg := messages.ExtensionCompleted{Result: &domain.ExtensionResult{
		Success: false,
		Status:  409,
		Detail:  "nonce already used",
	}}
	view.Update(msg)

	require.NotNil(t, view.result)
	assert.False(t, view.result.Success)
	// A rejection leaves the record untouched
	assert.Equal(t, original, view.source.TokenExpiryTime)

	out := view.View()
	assert.Contains(t, out, "Extension rejected (status 409)")
}

func TestView_Update_ExtensionCompleted_Error(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())
	view.extending = true

	msg := messages.ExtensionCompleted{Err: errors.New("connection refused")}
	view.Update(msg)

	assert.False(t, view.extending)
	assert.Error(t, view.Err())
}

func TestView_Delete_ViaMenu(t *testing.T) {
	deletedID := ""
	mock := &MockDataSourceService{
		RemoveFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock, nil)
	view.SetSource(testSource())
	view.selected = OptionDelete

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, view.deleting)
	require.NotNil(t, cmd)
	result := cmd()
	removed, ok := result.(messages.SourceRemoved)
	require.True(t, ok)
	assert.Equal(t, "ds-1", removed.ID)
	assert.Equal(t, "ds-1", deletedID)
}

func TestView_Update_SourceRemoved_NavigatesBack(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())
	view.deleting = true

	_, cmd := view.Update(messages.SourceRemoved{ID: "ds-1"})

	assert.False(t, view.deleting)
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSources, changed.View)
}

func TestView_Update_SourceRemoved_Error(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())

	_, cmd := view.Update(messages.SourceRemoved{ID: "ds-1", Err: errors.New("delete failed")})

	assert.Nil(t, cmd)
	assert.Error(t, view.Err())
}

func TestView_Select_Back(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetSource(testSource())
	view.selected = OptionBack

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSources, changed.View)
}

func TestView_View_NoSource(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil, nil)

	assert.Contains(t, view.View(), "No data source selected")
}

func TestView_View_RendersFields(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetDimensions(80, 24)
	view.SetSource(testSource())

	out := view.View()

	assert.Contains(t, out, "Data Source: ds-1")
	assert.Contains(t, out, "schema-1")
	assert.Contains(t, out, "https://example.com/hook")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "60 minutes")
	assert.Contains(t, out, "Extend Token")
	assert.Contains(t, out, "Delete Data Source")
	assert.Contains(t, out, "Back")
}

func TestView_View_ClaimFallback(t *testing.T) {
	mock := &MockDataSourceService{
		ClaimsFunc: func(ds *domain.DataSource) (*domain.TokenClaims, error) {
			return &domain.TokenClaims{Audience: "claimed-audience"}, nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock, nil)
	view.SetDimensions(80, 24)
	source := testSource()
	source.Audience = ""
	view.SetSource(source)

	out := view.View()

	assert.Contains(t, out, "claimed-audience (from token)")
}

func TestView_View_Editing(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDataSourceService{}, nil)
	view.SetDimensions(80, 24)
	view.SetSource(testSource())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})

	out := view.View()

	assert.Contains(t, out, "Lifetime (minutes)")
	assert.Contains(t, out, "Leave blank for the configured default.")
}
