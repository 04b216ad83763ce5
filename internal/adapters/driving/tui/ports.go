// Package tui provides the interactive data source manager.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// DataSources manages data source registrations and token extensions.
	DataSources driving.DataSourceService

	// Settings supplies the extend defaults. Optional; without it the
	// menu's extend shortcut reports that no default is configured.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(dataSources driving.DataSourceService, settings driving.SettingsService) *Ports {
	return &Ports{
		DataSources: dataSources,
		Settings:    settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.DataSources == nil {
		return ErrMissingDataSourceService
	}
	return nil
}
