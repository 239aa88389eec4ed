package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store as a single JSON document on disk.
// The timeline, the watch loop and profile edits may run as separate
// processes on one file, so every call re-reads the document and Set or
// Delete rewrite it atomically with only the touched keys changed.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens the store at path and checks that any existing document
// decodes. If path is empty, defaults to ~/.labtime/storage.json
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".labtime", "storage.json")
	}

	s := &FileStore{path: path}
	if _, err := s.read(); err != nil {
		return nil, fmt.Errorf("failed to load storage from %s: %w", path, err)
	}
	return s, nil
}

// read returns the document as it is on disk now. A missing or empty file is
// an empty document. Callers hold mu.
func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data := make(map[string]json.RawMessage)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode storage file: %w", err)
	}
	return data, nil
}

// write replaces the document through a temp file and rename. Callers hold mu.
func (s *FileStore) write(data map[string]json.RawMessage) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	tempPath := file.Name()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.Lock()
	data, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, dst)
}

// Set implements Store. Keys not in values keep whatever is on disk.
func (s *FileStore) Set(_ context.Context, values map[string]any) error {
	encoded, err := encode(values)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	for key, value := range encoded {
		data[key] = value
	}
	return s.write(data)
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	removed := false
	for _, key := range keys {
		if _, ok := data[key]; ok {
			delete(data, key)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.write(data)
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
