// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package locate resolves an initial home location on systems where one can
// be derived locally. Its providers only run when the cache slot is empty;
// once a home snapshot exists they are never consulted again.
package locate

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// TruncPrecision is the coordinate precision used for location queries.
const TruncPrecision = 4

// Fix represents a geographic position reported by a provider.
type Fix struct {
	Lat float64
	Lon float64
}

// Valid checks if the fix is a valid geographic coordinate.
func (f Fix) Valid() bool {
	return f.Lat >= -90 && f.Lat <= 90 && f.Lon >= -180 && f.Lon <= 180
}

// Query renders the fix as a "lat,lon" location query for the weather API.
func (f Fix) Query() string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(Truncate(f.Lat, TruncPrecision), 'f', -1, 64),
		strconv.FormatFloat(Truncate(f.Lon, TruncPrecision), 'f', -1, 64),
	)
}

// Provider is implemented by each home-location source.
type Provider interface {
	Name() string
	Locate(ctx context.Context) (Fix, error)
}

// FileProvider reads a home location from a "lat,lon" file.
type FileProvider struct {
	name string
	path string
}

// NewFileProvider returns a FileProvider for the given file path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{
		name: "location_file",
		path: path,
	}
}

// Name returns the name of the FileProvider instance.
func (p *FileProvider) Name() string {
	return p.name
}

// Locate reads the location file and returns the first valid coordinate pair.
// Comment lines and malformed lines are skipped.
func (p *FileProvider) Locate(_ context.Context) (Fix, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to read location file %q: %w", p.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		coords := strings.Split(line, ",")
		if len(coords) != 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			continue
		}
		fix := Fix{Lat: lat, Lon: lon}
		if !fix.Valid() {
			continue
		}
		return fix, nil
	}

	return Fix{}, fmt.Errorf("no valid coordinates found in location file %q", p.path)
}

// Truncate cuts a float down to the given number of decimal places.
func Truncate(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Trunc(x*p) / p
}
