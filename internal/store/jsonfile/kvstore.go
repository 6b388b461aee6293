// Package jsonfile provides a JSON file-backed implementation of storage.Storage.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// Entry is a single stored value with metadata.
type Entry struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KVFile is the root JSON structure stored on disk.
type KVFile struct {
	Entries map[string]Entry `json:"entries"`
}

// KVStore implements storage.Storage using a JSON file for persistence.
type KVStore struct {
	path string
	mu   sync.RWMutex
}

// NewKVStore creates a new JSON file KV store at the given path.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path}
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) lockPath() string {
	return s.path + ".lock"
}

// withFileLock acquires a file lock, executes fn, then releases the lock.
// LOCK_SH allows concurrent readers across processes, LOCK_EX is exclusive.
func (s *KVStore) withFileLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns the values stored for keys. Missing keys are omitted.
func (s *KVStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(keys))

	err := s.withFileLock(syscall.LOCK_SH, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		for _, key := range keys {
			if entry, ok := file.Entries[key]; ok {
				out[key] = entry.Value
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Set creates or updates every key in values in a single write.
func (s *KVStore) Set(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(syscall.LOCK_EX, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		now := time.Now()
		for key, value := range values {
			file.Entries[key] = Entry{Value: value, UpdatedAt: now}
		}

		return s.save(file)
	})
}

// Remove deletes keys. Keys that do not exist are ignored.
func (s *KVStore) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(syscall.LOCK_EX, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		changed := false
		for _, key := range keys {
			if _, ok := file.Entries[key]; ok {
				delete(file.Entries, key)
				changed = true
			}
		}

		if !changed {
			return nil
		}
		return s.save(file)
	})
}

// load reads the KV file from disk.
// Returns an empty KVFile if the file doesn't exist.
func (s *KVStore) load() (KVFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return KVFile{Entries: make(map[string]Entry)}, nil
		}
		return KVFile{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return KVFile{Entries: make(map[string]Entry)}, nil
	}

	var file KVFile
	if err := json.Unmarshal(data, &file); err != nil {
		return KVFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if file.Entries == nil {
		file.Entries = make(map[string]Entry)
	}

	return file, nil
}

// save writes the KV file to disk atomically. The file holds tokens, so it is
// only readable by the owner.
func (s *KVStore) save(file KVFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
