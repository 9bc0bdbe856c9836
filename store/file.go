package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FileStore keeps the whole mapping in a single JSON document on disk.
// Every mutation is a load-full-map, mutate-one-entry, write-full-map
// cycle under one mutex, so concurrent writers from different users never
// lose each other's entries.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given JSON file. The file is
// created lazily on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(userID int64) (RepoInfo, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return RepoInfo{}, false, err
	}
	info, ok := m[key(userID)]
	return info, ok, nil
}

func (s *FileStore) Put(userID int64, info RepoInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key(userID)] = info
	return s.save(m)
}

func (s *FileStore) Delete(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key(userID)]; !ok {
		return nil
	}
	delete(m, key(userID))
	return s.save(m)
}

// load reads the whole document. A missing or unreadable file yields an
// empty map rather than an error: the mapping is convenience state and a
// corrupt file must not brick the bot.
func (s *FileStore) load() (map[string]RepoInfo, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]RepoInfo{}, nil
	}
	m := map[string]RepoInfo{}
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]RepoInfo{}, nil
	}
	return m, nil
}

// save writes the whole document atomically (temp file + rename).
func (s *FileStore) save(m map[string]RepoInfo) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// key keeps the on-disk keys as strings so the JSON document stays
// readable and stable across backends.
func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

var _ RepoStore = (*FileStore)(nil)
