// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package netmon

import (
	"context"
	"fmt"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/skycastd/skycast/internal/logger"
)

const wifiPollInterval = time.Second * 15

// WifiMonitor derives the connectivity state from the association status of
// the local Wi-Fi station interfaces. It is the fallback observer on systems
// without NetworkManager.
type WifiMonitor struct {
	logger *logger.Logger
	wlan   *wifi.Client
	period time.Duration
	state  stateCell
}

// NewWifiMonitor creates a WifiMonitor and starts its polling loop. Creation
// fails if the nl80211 interface is unavailable; callers should fall back to
// the optimistic Static monitor in that case.
func NewWifiMonitor(ctx context.Context, log *logger.Logger) (*WifiMonitor, error) {
	wlan, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}

	monitor := &WifiMonitor{
		logger: log,
		wlan:   wlan,
		period: wifiPollInterval,
	}
	monitor.state.store(StateConnected)
	go monitor.poll(ctx)
	return monitor, nil
}

// State returns the last observed connectivity state.
func (m *WifiMonitor) State() State {
	return m.state.load()
}

// poll periodically checks the station interfaces until the context is
// cancelled. Probe failures keep the previous state rather than flipping to
// disconnected.
func (m *WifiMonitor) poll(ctx context.Context) {
	firstRun := true
	for {
		if !firstRun {
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.period):
			}
		}
		firstRun = false

		associated, err := m.anyStationAssociated()
		if err != nil {
			m.logger.Debug("wifi connectivity probe failed", logger.Err(err))
			continue
		}

		state := StateDisconnected
		if associated {
			state = StateConnected
		}
		m.state.store(state)
	}
}

// anyStationAssociated reports whether at least one Wi-Fi station interface is
// associated with an access point.
func (m *WifiMonitor) anyStationAssociated() (bool, error) {
	ifaces, err := m.wlan.Interfaces()
	if err != nil {
		return false, fmt.Errorf("failed to list interfaces: %w", err)
	}

	stations := 0
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		stations++
		if _, err := m.wlan.BSS(iface); err == nil {
			return true, nil
		}
	}
	if stations == 0 {
		return false, fmt.Errorf("no wifi station interfaces found")
	}

	return false, nil
}
