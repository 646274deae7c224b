package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// Store keeps opaque JSON documents under string keys. Values are never
// interpreted here.
type Store interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Close() error
}

type fileData struct {
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore persists every entry into a single JSON file, rewritten
// atomically on each Put.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data fileData
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	store := &FileStore{path: filepath.Join(baseDir, "store.json")}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = fileData{Entries: map[string]json.RawMessage{}}

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&s.data); err != nil {
		if errors.Is(err, io.EOF) {
			return s.saveLocked()
		}
		return fmt.Errorf("decode store file: %w", err)
	}

	if s.data.Entries == nil {
		s.data.Entries = map[string]json.RawMessage{}
	}
	return nil
}

// Put stores value under key. Values that are not valid JSON are kept as a
// JSON string so the file itself always stays decodable.
func (s *FileStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := json.RawMessage(append([]byte(nil), value...))
	if !json.Valid(value) {
		encoded, err := json.Marshal(string(value))
		if err != nil {
			return fmt.Errorf("encode raw value: %w", err)
		}
		raw = encoded
	}

	previous, existed := s.data.Entries[key]
	s.data.Entries[key] = raw

	if err := s.saveLocked(); err != nil {
		if existed {
			s.data.Entries[key] = previous
		} else {
			delete(s.data.Entries, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data.Entries[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), raw...), nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) saveLocked() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode store: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}

	return nil
}
