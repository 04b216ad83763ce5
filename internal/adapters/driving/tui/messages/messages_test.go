package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewSources, "sources"},
		{ViewDetail, "detail"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewChanged(t *testing.T) {
	msg := ViewChanged{View: ViewSources}
	assert.Equal(t, ViewSources, msg.View)
}

func TestSourcesLoaded(t *testing.T) {
	t.Run("with sources", func(t *testing.T) {
		sources := []domain.DataSource{{ID: "ds-1"}, {ID: "ds-2"}}
		msg := SourcesLoaded{Sources: sources}

		assert.Len(t, msg.Sources, 2)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := SourcesLoaded{Err: errors.New("list failed")}

		assert.Empty(t, msg.Sources)
		assert.Error(t, msg.Err)
	})
}

func TestSourceSelected(t *testing.T) {
	msg := SourceSelected{Source: domain.DataSource{ID: "ds-1", SchemaID: "schema-7"}}

	assert.Equal(t, "ds-1", msg.Source.ID)
	assert.Equal(t, "schema-7", msg.Source.SchemaID)
}

func TestSourceRemoved(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		msg := SourceRemoved{ID: "ds-1"}
		assert.Equal(t, "ds-1", msg.ID)
		assert.NoError(t, msg.Err)
	})

	t.Run("failure", func(t *testing.T) {
		msg := SourceRemoved{ID: "ds-1", Err: errors.New("delete failed")}
		assert.Error(t, msg.Err)
	})
}

func TestExtensionCompleted(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		msg := ExtensionCompleted{Result: &domain.ExtensionResult{
			Success:      true,
			DataSourceID: "ds-1",
			ExpiryTime:   "2024-06-01T12:00:00Z",
		}}

		assert.True(t, msg.Result.Success)
		assert.NoError(t, msg.Err)
	})

	t.Run("rejected", func(t *testing.T) {
		msg := ExtensionCompleted{Result: &domain.ExtensionResult{
			Success: false,
			Status:  409,
			Detail:  "nonce already used",
		}}

		assert.False(t, msg.Result.Success)
		assert.Equal(t, 409, msg.Result.Status)
	})

	t.Run("transport failure", func(t *testing.T) {
		msg := ExtensionCompleted{Err: errors.New("connection refused")}

		assert.Nil(t, msg.Result)
		assert.Error(t, msg.Err)
	})
}
