// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package kvstore provides a small key-value store for serializable values. It
// backs the single-slot weather cache: writes are best-effort and reads that
// hit missing or undecodable data report "no value" instead of an error, so a
// stale cache blob from an older schema can never fail a caller.
package kvstore

import "encoding/json"

// Store is implemented by each key-value storage backend. Implementations
// guarantee that a single Set, Get or Remove call is atomic.
type Store interface {
	Set(key string, data []byte) error
	Get(key string) ([]byte, bool)
	Remove(key string) error
}

// Put serializes value and stores it under key. Serialization or storage
// failures are swallowed: the cache write is best-effort.
func Put[T any](store Store, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = store.Set(key, data)
}

// Fetch retrieves the value stored under key. It reports false if the key is
// unset or if the stored bytes no longer decode into T.
func Fetch[T any](store Store, key string) (T, bool) {
	var value T
	data, ok := store.Get(key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}
