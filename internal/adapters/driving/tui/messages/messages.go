// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSources is the data source list view.
	ViewSources
	// ViewDetail shows a single data source with its token claims.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSources:
		return "sources"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SourcesLoaded carries the list of data sources from the service.
type SourcesLoaded struct {
	Sources []domain.DataSource
	Err     error
}

// SourceSelected signals a data source was selected for the detail view.
type SourceSelected struct {
	Source domain.DataSource
}

// SourceRemoved signals a data source was deleted.
type SourceRemoved struct {
	ID  string
	Err error
}

// ExtendRequested asks for a token extension of the default data source.
// The app resolves the id and lifetime from settings.
type ExtendRequested struct{}

// ExtensionCompleted carries the outcome of a token extension. Result is
// set whenever the vendor answered, including rejections; Err covers
// transport and configuration failures.
type ExtensionCompleted struct {
	Result *domain.ExtensionResult
	Err    error
}
