package library

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store persists the entire library state as one JSON document on disk.
// The path is injected at construction; there is no process-wide database
// switch. Every operation re-reads the full document, so in-memory views are
// always transient.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path, making sure the parent
// directory exists so first-run succeeds.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create database dir")
		}
	}
	return &Store{path: path}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the whole document. A missing file is not an error: the store
// bootstraps an empty document with all three collections and persists it.
func (s *Store) Load() (*Document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := &Document{}
		doc.normalize()
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read library database")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode library database")
	}
	doc.normalize()
	return &doc, nil
}

// Save serializes the full document and overwrites the backing file.
// The write is a plain overwrite, not a temp-file-then-rename: a crash mid
// write can truncate the document. Acceptable for the single-user usage model.
func (s *Store) Save(doc *Document) error {
	doc.normalize()
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode library database")
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrap(err, "write library database")
	}
	return nil
}

// Reset overwrites the backing file with empty collections. Used by tests and
// the seeding utility.
func (s *Store) Reset() error {
	doc := &Document{}
	return s.Save(doc)
}
