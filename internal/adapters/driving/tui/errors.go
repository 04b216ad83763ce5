package tui

import "errors"

// ErrMissingDataSourceService is returned when the data source service is not provided.
var ErrMissingDataSourceService = errors.New("tui: data source service is required")
