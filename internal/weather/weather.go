// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package weather holds the domain types shared by the providers, the
// repositories and the presenter.
package weather

import (
	"context"
	"time"
)

// CacheKey is the single storage slot holding the last-known home-location
// snapshot. The home and search flows read and write the same slot.
const CacheKey = "cache"

// DateFormat is the date layout the astronomy endpoint expects.
const DateFormat = "2006-01-02"

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	Current(ctx context.Context, query string) (*Snapshot, error)
	Astronomy(ctx context.Context, query string, day time.Time) (*Astronomy, error)
}

// Snapshot represents one fetched weather reading for a location.
//
// Query is the location string that produced the snapshot. It is stamped by
// the repositories right after a successful fetch, before the snapshot is
// cached. A snapshot without a query is a locally pinned value that is never
// refreshed.
type Snapshot struct {
	Query             string    `json:"query,omitempty"`
	CityName          string    `json:"cityName"`
	Humidity          int       `json:"humidity"`
	UVIndex           float64   `json:"uvIndex"`
	FeelsLikeC        float64   `json:"feelsLikeC"`
	FeelsLikeF        float64   `json:"feelsLikeF"`
	TempC             float64   `json:"tempC"`
	TempF             float64   `json:"tempF"`
	ConditionIconPath string    `json:"conditionIconPath"`
	Latitude          float64   `json:"latitude,omitempty"`
	Longitude         float64   `json:"longitude,omitempty"`
	FetchedAt         time.Time `json:"fetchedAt,omitzero"`
}

// HasQuery reports whether the snapshot carries a refreshable location query.
func (s *Snapshot) HasQuery() bool {
	return s.Query != ""
}

// IconURL resolves the protocol-relative condition icon path to a full URL.
func (s *Snapshot) IconURL() string {
	if s.ConditionIconPath == "" {
		return ""
	}
	return "https:" + s.ConditionIconPath
}

// Astronomy represents sunrise and sunset for the location of the most recent
// snapshot. It is never cached: it is fetched fresh for the cached query and
// today's date.
type Astronomy struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}
