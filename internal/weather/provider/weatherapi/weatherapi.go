// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package weatherapi implements the weather.Provider interface for the
// WeatherAPI.com v1 API.
package weatherapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/skycastd/skycast/internal/httpapi"
	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/weather"
)

const (
	name = "weatherapi"

	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	currentPath   = "/current.json"
	astronomyPath = "/astronomy.json"
)

// WeatherAPI is a weather.Provider backed by WeatherAPI.com.
type WeatherAPI struct {
	apiKey string
	http   *httpapi.Client
	log    *logger.Logger
}

type currentResponse struct {
	Location struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		Humidity   int     `json:"humidity"`
		UV         float64 `json:"uv"`
		FeelslikeC float64 `json:"feelslike_c"`
		FeelslikeF float64 `json:"feelslike_f"`
		TempC      float64 `json:"temp_c"`
		TempF      float64 `json:"temp_f"`
		Condition  struct {
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
}

type astronomyResponse struct {
	Astronomy struct {
		Astro struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"astro"`
	} `json:"astronomy"`
}

// New returns a new WeatherAPI provider using the given API client and key.
func New(http *httpapi.Client, log *logger.Logger, apiKey string) (*WeatherAPI, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	return &WeatherAPI{apiKey: apiKey, http: http, log: log}, nil
}

// Name returns the provider name.
func (w *WeatherAPI) Name() string {
	return name
}

// Current fetches the current conditions for the given location query. The
// returned snapshot is not yet stamped with the query; the repositories own
// that step.
func (w *WeatherAPI) Current(ctx context.Context, query string) (*weather.Snapshot, error) {
	res := new(currentResponse)

	params := url.Values{}
	params.Set("aqi", "no")
	params.Set("key", w.apiKey)
	params.Set("q", query)

	if _, err := w.http.Get(ctx, currentPath, res, params); err != nil {
		return nil, fmt.Errorf("failed to retrieve current conditions from WeatherAPI: %w", err)
	}

	return &weather.Snapshot{
		CityName:          res.Location.Name,
		Humidity:          res.Current.Humidity,
		UVIndex:           res.Current.UV,
		FeelsLikeC:        res.Current.FeelslikeC,
		FeelsLikeF:        res.Current.FeelslikeF,
		TempC:             res.Current.TempC,
		TempF:             res.Current.TempF,
		ConditionIconPath: res.Current.Condition.Icon,
		Latitude:          res.Location.Lat,
		Longitude:         res.Location.Lon,
		FetchedAt:         time.Now(),
	}, nil
}

// Astronomy fetches sunrise and sunset for the given location query and day.
func (w *WeatherAPI) Astronomy(ctx context.Context, query string, day time.Time) (*weather.Astronomy, error) {
	res := new(astronomyResponse)

	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("q", query)
	params.Set("dt", day.Format(weather.DateFormat))

	if _, err := w.http.Get(ctx, astronomyPath, res, params); err != nil {
		return nil, fmt.Errorf("failed to retrieve astronomy data from WeatherAPI: %w", err)
	}

	return &weather.Astronomy{
		Sunrise: res.Astronomy.Astro.Sunrise,
		Sunset:  res.Astronomy.Astro.Sunset,
	}, nil
}
