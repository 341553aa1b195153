// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package repository implements the data-fetch-with-cache-fallback layer. The
// home flow degrades to the last cached snapshot on any refresh failure; the
// search flow propagates errors verbatim so the caller can render them.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/skycastd/skycast/internal/kvstore"
	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/weather"
)

// HomeRepository serves the current home-location weather and astronomy. Both
// methods are safe to call concurrently; they only share the cache slot.
type HomeRepository interface {
	Weather(ctx context.Context) *weather.Snapshot
	Astronomy(ctx context.Context) *weather.Astronomy
}

// Home is the production HomeRepository on top of a weather provider and the
// shared cache slot.
type Home struct {
	provider weather.Provider
	store    kvstore.Store
	logger   *logger.Logger
	now      func() time.Time
}

// NewHome returns a new Home repository.
func NewHome(provider weather.Provider, store kvstore.Store, logger *logger.Logger) (*Home, error) {
	if provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Home{
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Weather returns the current home-location weather, or nil when no home
// location has been set yet.
//
// A cached snapshot without a query is returned as-is without any network
// attempt. A cached snapshot with a query triggers a refresh: on success the
// fresh snapshot supersedes the cache slot, on any failure the stale snapshot
// is returned unchanged and the failure is only logged. Callers never see a
// refresh error.
func (h *Home) Weather(ctx context.Context) *weather.Snapshot {
	cached, ok := kvstore.Fetch[weather.Snapshot](h.store, weather.CacheKey)
	if !ok {
		return nil
	}
	if !cached.HasQuery() {
		// locally pinned snapshot with no refreshable source
		return &cached
	}

	fresh, err := h.provider.Current(ctx, cached.Query)
	if err != nil {
		h.logger.Warn("failed to refresh home weather, serving cached snapshot", logger.Err(err))
		return &cached
	}

	fresh.Query = cached.Query
	kvstore.Put(h.store, weather.CacheKey, fresh)
	return fresh
}

// Astronomy returns today's sunrise and sunset for the home location, or nil
// if no refreshable home location is cached or the fetch fails. Astronomy data
// is never cached, so there is no stale value to fall back to.
func (h *Home) Astronomy(ctx context.Context) *weather.Astronomy {
	cached, ok := kvstore.Fetch[weather.Snapshot](h.store, weather.CacheKey)
	if !ok || !cached.HasQuery() {
		return nil
	}

	astro, err := h.provider.Astronomy(ctx, cached.Query, h.now())
	if err != nil {
		h.logger.Warn("failed to fetch astronomy data", logger.Err(err))
		return nil
	}
	return astro
}
