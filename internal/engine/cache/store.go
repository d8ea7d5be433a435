package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const entryExt = ".json"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Cache errors. Get returns ErrNotFound or ErrExpired on a miss.
const (
	ErrNotFound   = constError("cache entry not found")
	ErrExpired    = constError("cache entry expired")
	ErrInvalidKey = constError("cache key cannot be empty")
	ErrDisabled   = constError("cache is disabled")
)

// Store is what the estimator needs from a cache tier.
type Store interface {
	Get(key string) (*Entry, error)
	Set(key string, data json.RawMessage) error
}

// FileStore keeps one JSON file per entry. It is safe for concurrent use.
type FileStore struct {
	dir        string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// NewFileStore returns a store rooted at dir, creating it if needed. A
// disabled store accepts every call and returns ErrDisabled.
func NewFileStore(dir string, enabled bool, ttlSeconds int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir, enabled: true, ttlSeconds: ttlSeconds}, nil
}

// Get returns the entry for key. Expired entries are deleted.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	path := s.path(key)
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set writes data under key with the store's TTL. The file is written to a
// temporary name and renamed so readers never see a partial entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	encoded, err := json.MarshalIndent(NewEntry(key, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	return s.sweep(func(*Entry) bool { return true })
}

// Prune removes expired or unreadable entries and returns how many were removed.
func (s *FileStore) Prune() (int, error) {
	return s.sweep(func(e *Entry) bool { return e == nil || e.IsExpired() })
}

// Stats describes the store's contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	Bytes      int64  `json:"bytes"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// Stats counts entries and their size on disk.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entries()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Dir: s.dir, TTLSeconds: s.ttlSeconds}
	for _, f := range files {
		info, infoErr := f.Info()
		if infoErr != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}

// Enabled reports whether the store is active.
func (s *FileStore) Enabled() bool { return s.enabled }

// Dir returns the cache directory.
func (s *FileStore) Dir() string { return s.dir }

// sweep removes every entry for which drop returns true. drop receives nil
// for files that cannot be decoded.
func (s *FileStore) sweep(drop func(*Entry) bool) (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entries()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		path := filepath.Join(s.dir, f.Name())
		var entry *Entry
		if data, readErr := os.ReadFile(path); readErr == nil {
			var e Entry
			if json.Unmarshal(data, &e) == nil {
				entry = &e
			}
		}
		if !drop(entry) {
			continue
		}
		if rmErr := os.Remove(path); rmErr != nil {
			return removed, fmt.Errorf("removing %s: %w", f.Name(), rmErr)
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) entries() ([]os.DirEntry, error) {
	all, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	out := all[:0]
	for _, e := range all {
		if !e.IsDir() && filepath.Ext(e.Name()) == entryExt {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe+entryExt)
}
