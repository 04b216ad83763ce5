// Package history persists operation records in a local SQLite
// database so past token and data source operations can be reviewed.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/byods-cli/internal/adapters/driven/history/migrations"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Ensure Store implements the port.
var _ driven.HistoryStore = (*Store)(nil)

// Store is a SQLite-backed operation history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the history database in dataDir. If dataDir is empty
// it defaults to the byods config directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("getting config directory: %w", err)
		}
		dataDir = filepath.Join(configDir, "byods")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL keeps a CLI run and a concurrent Lambda test from tripping
	// over each other's writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append stores one operation record.
func (s *Store) Append(ctx context.Context, rec domain.OperationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operation_records (id, operation, data_source_id, success, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Operation, rec.DataSourceID, rec.Success, rec.Status, rec.Detail, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("appending operation record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.OperationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation, data_source_id, success, status, detail, created_at
		FROM operation_records
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying operation records: %w", err)
	}
	defer rows.Close()

	var records []domain.OperationRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.OperationRecord
		if err := rows.Scan(&rec.ID, &rec.Operation, &rec.DataSourceID,
			&rec.Success, &rec.Status, &rec.Detail, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning operation record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operation records: %w", err)
	}

	return records, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
