// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package kvstore

import (
	"reflect"
	"testing"
)

type testValue struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Rating float64  `json:"rating"`
	Tags   []string `json:"tags"`
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %s", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
	}
}

func TestPutFetch(t *testing.T) {
	t.Run("set followed by get returns a deep-equal value", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				want := testValue{Name: "London", Count: 3, Rating: 4.5, Tags: []string{"a", "b"}}
				Put(store, "cache", want)
				got, ok := Fetch[testValue](store, "cache")
				if !ok {
					t.Fatal("expected value to be present")
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("expected value to be %+v, got %+v", want, got)
				}
			})
		}
	})
	t.Run("get on an unset key reports no value", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				if _, ok := Fetch[testValue](store, "missing"); ok {
					t.Error("expected no value for unset key")
				}
			})
		}
	})
	t.Run("get after remove reports no value", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				Put(store, "cache", testValue{Name: "Berlin"})
				if err := store.Remove("cache"); err != nil {
					t.Fatalf("failed to remove key: %s", err)
				}
				if _, ok := Fetch[testValue](store, "cache"); ok {
					t.Error("expected no value after remove")
				}
			})
		}
	})
	t.Run("removing an absent key is a no-op", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Remove("never-set"); err != nil {
					t.Errorf("expected remove of absent key to succeed, got %s", err)
				}
			})
		}
	})
	t.Run("schema mismatch on stored bytes reports no value", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Set("cache", []byte(`this is not json`)); err != nil {
					t.Fatalf("failed to set raw bytes: %s", err)
				}
				if _, ok := Fetch[testValue](store, "cache"); ok {
					t.Error("expected undecodable value to report no value")
				}
			})
		}
	})
	t.Run("unserializable value degrades to a silent no-op", func(t *testing.T) {
		store := NewMemory()
		Put(store, "cache", func() {})
		if _, ok := store.Get("cache"); ok {
			t.Error("expected no value to be written")
		}
	})
	t.Run("overwriting a key supersedes the previous value", func(t *testing.T) {
		for name, store := range testStores(t) {
			t.Run(name, func(t *testing.T) {
				Put(store, "cache", testValue{Name: "London"})
				Put(store, "cache", testValue{Name: "Paris"})
				got, ok := Fetch[testValue](store, "cache")
				if !ok {
					t.Fatal("expected value to be present")
				}
				if got.Name != "Paris" {
					t.Errorf("expected name to be 'Paris', got %q", got.Name)
				}
			})
		}
	})
}

func TestFile_Persistence(t *testing.T) {
	t.Run("values survive a store re-open", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFile(dir)
		if err != nil {
			t.Fatalf("failed to create file store: %s", err)
		}
		Put(store, "cache", testValue{Name: "Oslo", Count: 1})

		reopened, err := NewFile(dir)
		if err != nil {
			t.Fatalf("failed to re-open file store: %s", err)
		}
		got, ok := Fetch[testValue](reopened, "cache")
		if !ok {
			t.Fatal("expected value to survive re-open")
		}
		if got.Name != "Oslo" {
			t.Errorf("expected name to be 'Oslo', got %q", got.Name)
		}
	})
	t.Run("keys with path separators stay inside the state dir", func(t *testing.T) {
		store, err := NewFile(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create file store: %s", err)
		}
		if err := store.Set("../escape", []byte(`{}`)); err != nil {
			t.Fatalf("failed to set key: %s", err)
		}
		if _, ok := store.Get("../escape"); !ok {
			t.Error("expected sanitized key to round-trip")
		}
	})
}
