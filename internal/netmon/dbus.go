// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package netmon

import (
	"context"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/skycastd/skycast/internal/logger"
)

const (
	nmInterface   = "org.freedesktop.NetworkManager"
	nmPath        = "/org/freedesktop/NetworkManager"
	nmWatchMember = "StateChanged"

	// NM_STATE_CONNECTED_SITE; everything below has no usable network path
	nmStateConnectedSite = 60

	busReconnectDelay   = 5 * time.Second
	subscribeRetryDelay = 10 * time.Second
	signalBufferSize    = 8
)

// DBusMonitor tracks network connectivity through NetworkManager state change
// signals on the system D-Bus.
type DBusMonitor struct {
	logger *logger.Logger
	state  stateCell
}

// NewDBusMonitor creates a DBusMonitor and starts its observation loop. The
// monitor starts out as connected and never fails: if the system bus or
// NetworkManager are unavailable it keeps the optimistic default and retries
// in the background until the context is cancelled.
func NewDBusMonitor(ctx context.Context, log *logger.Logger) *DBusMonitor {
	monitor := &DBusMonitor{logger: log}
	monitor.state.store(StateConnected)
	go monitor.watch(ctx)
	return monitor
}

// State returns the last observed connectivity state.
func (m *DBusMonitor) State() State {
	return m.state.load()
}

// watch monitors NetworkManager state changes using D-Bus signals and handles
// reconnections as needed.
func (m *DBusMonitor) watch(ctx context.Context) {
	for {
		conn := m.connectToSystemBus(ctx)
		if conn == nil {
			return // the context was cancelled, exit
		}

		// try to reconnect or exit if the context was cancelled
		if !m.setupStateMonitoring(ctx, conn) {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}

		m.readInitialState(conn)

		sigCh := make(chan *dbus.Signal, signalBufferSize)
		conn.Signal(sigCh)
		m.logger.Debug("subscribed to dbus signal", slog.String("interface", nmInterface),
			slog.String("member", nmWatchMember))

		m.handleStateSignals(ctx, sigCh)

		// Clean up before reconnect
		conn.RemoveSignal(sigCh)
		if err := conn.Close(); err != nil {
			m.logger.Error("failed to close system bus connection", logger.Err(err))
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(busReconnectDelay)
		}
	}
}

// connectToSystemBus establishes a connection to the system D-Bus with automatic
// reconnection handling on failure. It continuously retries until the provided
// context is cancelled.
func (m *DBusMonitor) connectToSystemBus(ctx context.Context) *dbus.Conn {
	for {
		conn, err := dbus.ConnectSystemBus()
		if err != nil {
			select {
			case <-time.After(busReconnectDelay):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		// Ensure cleanup on context cancellation
		go func() {
			<-ctx.Done()
			if err := conn.Close(); err != nil {
				m.logger.Error("failed to close system bus connection", logger.Err(err))
			}
		}()

		return conn
	}
}

// setupStateMonitoring subscribes to the NetworkManager StateChanged signal and
// handles error retries.
func (m *DBusMonitor) setupStateMonitoring(ctx context.Context, conn *dbus.Conn) bool {
	if err := conn.AddMatchSignal(dbus.WithMatchInterface(nmInterface),
		dbus.WithMatchMember(nmWatchMember),
	); err != nil {
		m.logger.Error("failed to subscribe to dbus signal", slog.String("interface", nmInterface),
			slog.String("member", nmWatchMember), logger.Err(err))
		if err = conn.Close(); err != nil {
			m.logger.Error("failed to close system bus connection", logger.Err(err))
		}
		select {
		case <-time.After(subscribeRetryDelay):
			return false
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// readInitialState seeds the state cell from the current NetworkManager State
// property. A failed read keeps the optimistic default.
func (m *DBusMonitor) readInitialState(conn *dbus.Conn) {
	variant, err := conn.Object(nmInterface, nmPath).GetProperty(nmInterface + ".State")
	if err != nil {
		m.logger.Debug("failed to read NetworkManager state property", logger.Err(err))
		return
	}
	if nmState, ok := variant.Value().(uint32); ok {
		m.applyState(nmState)
	}
}

// handleStateSignals listens for state change signals and applies them until the
// context is cancelled or the signal channel closes.
func (m *DBusMonitor) handleStateSignals(ctx context.Context, sigCh chan *dbus.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sgn, ok := <-sigCh:
			if !ok {
				// connection likely closed; try to reconnect
				return
			}
			m.processStateSignal(sgn)
		}
	}
}

// processStateSignal extracts the NetworkManager state from a StateChanged
// signal body and applies it.
func (m *DBusMonitor) processStateSignal(sgn *dbus.Signal) {
	if len(sgn.Body) != 1 {
		return
	}
	nmState, ok := sgn.Body[0].(uint32)
	if !ok {
		return
	}
	m.applyState(nmState)
}

func (m *DBusMonitor) applyState(nmState uint32) {
	state := StateDisconnected
	if nmState >= nmStateConnectedSite {
		state = StateConnected
	}
	if m.state.load() != state {
		m.logger.Debug("network connectivity changed", slog.String("state", state.String()))
	}
	m.state.store(state)
}
