// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileMode = 0o600

// File is a Store that persists each key as one JSON document in a state
// directory, surviving process restarts.
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile returns a File store rooted at dir, creating the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Set stores data under key. The write goes through a temporary file and a
// rename so readers never observe a partially written value.
func (f *File) Set(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move state file into place: %w", err)
	}
	return nil
}

// Get returns the data stored under key.
func (f *File) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Remove deletes any value stored under key. Removing an absent key is a no-op.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// path maps a key to its file in the state directory. Keys are sanitized so a
// key can never escape the directory.
func (f *File) path(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, sanitized+".json")
}
