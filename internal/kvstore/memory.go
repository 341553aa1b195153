// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package kvstore

import "sync"

// Memory is a concurrency-safe in-memory Store. It backs the tests and serves
// as the in-process fallback when no state directory is available.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns a new empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
	}
}

// Set stores data under key.
func (m *Memory) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

// Get returns the data stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	return data, ok
}

// Remove deletes any value stored under key. Removing an absent key is a no-op.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
