// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package repository

import (
	"context"
	"fmt"

	"github.com/skycastd/skycast/internal/kvstore"
	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/weather"
)

// SearchRepository serves query-based weather lookups and lets the caller
// persist a selected result as the new home location.
type SearchRepository interface {
	Result(ctx context.Context, query string) (*weather.Snapshot, error)
	SaveAsHome(snapshot *weather.Snapshot)
}

// Search is the production SearchRepository. Unlike the home flow it never
// reads the cache and never absorbs an error.
type Search struct {
	provider weather.Provider
	store    kvstore.Store
	logger   *logger.Logger
}

// NewSearch returns a new Search repository.
func NewSearch(provider weather.Provider, store kvstore.Store, logger *logger.Logger) (*Search, error) {
	if provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Search{
		provider: provider,
		store:    store,
		logger:   logger,
	}, nil
}

// Result performs a live fetch for the given location query and returns the
// snapshot stamped with that query. Provider errors propagate unchanged so the
// caller can distinguish no-network, generic and server-reported failures.
func (s *Search) Result(ctx context.Context, query string) (*weather.Snapshot, error) {
	snapshot, err := s.provider.Current(ctx, query)
	if err != nil {
		return nil, err
	}
	snapshot.Query = query
	return snapshot, nil
}

// SaveAsHome overwrites the shared cache slot with the given snapshot, making
// it the home location for future refreshes. The write is best-effort.
func (s *Search) SaveAsHome(snapshot *weather.Snapshot) {
	if snapshot == nil {
		return
	}
	kvstore.Put(s.store, weather.CacheKey, *snapshot)
}
