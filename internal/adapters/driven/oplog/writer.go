// Package oplog writes one JSON file per mutating operation, an audit
// trail that survives independently of the history database.
package oplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Ensure Writer implements the port.
var _ driven.RecordWriter = (*Writer)(nil)

// Writer persists operation records as standalone JSON files named
// data_source_<operation>_<id>_<timestamp>.json.
type Writer struct {
	dir string
}

// NewWriter creates a record writer rooted at dir. An empty dir means
// the current working directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Write persists the record and returns the path it was written to.
func (w *Writer) Write(rec domain.OperationRecord) (string, error) {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return "", fmt.Errorf("creating record directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding operation record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, recordFilename(rec))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing operation record: %w", err)
	}
	return path, nil
}

func recordFilename(rec domain.OperationRecord) string {
	parts := []string{"data_source", rec.Operation}
	if rec.DataSourceID != "" {
		parts = append(parts, rec.DataSourceID)
	}
	parts = append(parts, rec.CreatedAt.Format("20060102_150405"))
	return strings.Join(parts, "_") + ".json"
}
