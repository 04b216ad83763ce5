// Package credstore provides the credential record backends: a JSON
// file, a dotenv file and an AWS Secrets Manager secret. All three
// persist the same record and are interchangeable behind
// driven.CredentialStore; Select picks one from configuration and
// environment.
package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.CredentialStore = (*FileStore)(nil)

// FileStore keeps the credential record as a JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a JSON file store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the credential record from the JSON file.
func (s *FileStore) Load(_ context.Context) (*domain.CredentialRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: credential file %s does not exist", domain.ErrConfig, s.path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, s.path, err)
	}
	var rec domain.CredentialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, s.path, err)
	}
	return &rec, nil
}

// Save applies the update to the stored record and writes it back
// atomically. A missing file is seeded from a zero record; a malformed
// one is refused rather than clobbered.
func (s *FileStore) Save(_ context.Context, update domain.CredentialUpdate) error {
	if update.Empty() {
		return nil
	}

	rec := &domain.CredentialRecord{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, s.path, err)
		}
	case os.IsNotExist(err):
		// Seeding a new file; setup does exactly this.
	default:
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	update.Apply(rec)
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	out = append(out, '\n')
	if err := writeFileAtomic(s.path, out, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Source returns the file path for guidance messages.
func (s *FileStore) Source() string {
	return s.path
}

// writeFileAtomic writes data to a temp file in the target directory
// and renames it into place, so a crash mid-write never corrupts an
// existing file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
