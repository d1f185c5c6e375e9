package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// FileStore keeps the state in a single JSON file. Writes go to a temporary
// file in the same directory that is then renamed over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Repository.
func (s *FileStore) Load(_ context.Context) (*types.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StoreError{Op: "load", Message: "failed to read " + s.path, Cause: err}
	}
	state, err := types.DecodeState(bytes.NewReader(data))
	if err != nil {
		return nil, &StoreError{Op: "load", Message: "failed to decode " + s.path, Cause: err}
	}
	return state, nil
}

// Save implements Repository.
func (s *FileStore) Save(_ context.Context, state types.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &StoreError{Op: "save", Message: "failed to encode state", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StoreError{Op: "save", Message: "failed to create " + dir, Cause: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return &StoreError{Op: "save", Message: "failed to create temporary file", Cause: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return &StoreError{Op: "save", Message: "failed to write state", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Op: "save", Message: "failed to write state", Cause: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &StoreError{Op: "save", Message: "failed to replace " + s.path, Cause: err}
	}
	return nil
}
