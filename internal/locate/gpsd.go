// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package locate

import (
	"context"
	"fmt"
	"net"

	"github.com/stratoberry/go-gpsd"
)

const (
	defaultGPSDHost = "localhost"
	defaultGPSDPort = "2947"
)

// GPSDProvider resolves the home location from a local gpsd instance.
type GPSDProvider struct {
	name string
	addr string
}

// NewGPSDProvider returns a GPSDProvider for the given host and port. Empty
// values fall back to the gpsd defaults.
func NewGPSDProvider(host, port string) *GPSDProvider {
	if host == "" {
		host = defaultGPSDHost
	}
	if port == "" {
		port = defaultGPSDPort
	}
	return &GPSDProvider{
		name: "gpsd",
		addr: net.JoinHostPort(host, port),
	}
}

// Name returns the name of the GPSDProvider instance.
func (p *GPSDProvider) Name() string {
	return p.name
}

// Locate connects to gpsd and waits for the first TPV report with at least a
// 2D fix. The caller bounds the wait through the context.
func (p *GPSDProvider) Locate(ctx context.Context) (Fix, error) {
	session, err := gpsd.Dial(p.addr)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to connect to gpsd at %q: %w", p.addr, err)
	}

	fixChan := make(chan Fix, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok {
			return
		}
		// Need at least a 2D fix
		if tpv.Mode < gpsd.Mode2D {
			return
		}
		fix := Fix{
			Lat: Truncate(tpv.Lat, TruncPrecision),
			Lon: Truncate(tpv.Lon, TruncPrecision),
		}
		if !fix.Valid() {
			return
		}
		select {
		case fixChan <- fix:
		default:
		}
	})

	// Watch() returns a channel that closes when the watch ends, e.g. on a
	// lost connection. go-gpsd has no Close(); the session is abandoned when
	// we return.
	done := session.Watch()

	select {
	case <-ctx.Done():
		return Fix{}, ctx.Err()
	case <-done:
		return Fix{}, fmt.Errorf("gpsd connection ended before a fix was received")
	case fix := <-fixChan:
		return fix, nil
	}
}
