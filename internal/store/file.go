package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/contactkit/contactd/internal/contact"
	apperrors "github.com/contactkit/contactd/internal/errors"
	"github.com/contactkit/contactd/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore persists the contact collection as a single JSON array file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the full collection. A missing file degrades to an empty
// collection; an unreadable or unparseable file is a storage error.
func (s *FileStore) Load(ctx context.Context) ([]contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Store file %s not found, starting with empty collection", s.path)
			return []contact.Contact{}, nil
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read store file %s", s.path), err)
	}

	if len(content) == 0 {
		return []contact.Contact{}, nil
	}

	var contacts []contact.Contact
	if err := json.Unmarshal(content, &contacts); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to parse store file %s", s.path), err)
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}

	return contacts, nil
}

// Persist writes the full replacement collection.
func (s *FileStore) Persist(ctx context.Context, contacts []contact.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if contacts == nil {
		contacts = []contact.Contact{}
	}

	content, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to serialize contacts", err)
	}

	parentDir := filepath.Dir(s.path)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create store directory %s", parentDir), err)
	}

	if err := os.WriteFile(s.path, content, 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write store file %s", s.path), err)
	}

	return nil
}
