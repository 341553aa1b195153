// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/skycastd/skycast/internal/kvstore"
	"github.com/skycastd/skycast/internal/locate"
	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/netmon"
	"github.com/skycastd/skycast/internal/weather"
)

// selectMonitor picks the reachability backend. NetworkManager over D-Bus is
// preferred; wifi association polling is the fallback. With both disabled the
// service assumes it is always connected.
func (s *Service) selectMonitor(ctx context.Context) netmon.Monitor {
	if !s.config.NetMon.DisableDBus {
		return netmon.NewDBusMonitor(ctx, s.logger)
	}
	if !s.config.NetMon.DisableWifi {
		monitor, err := netmon.NewWifiMonitor(ctx, s.logger)
		if err != nil {
			s.logger.Error("failed to create wifi monitor", logger.Err(err))
		} else {
			return monitor
		}
	}
	return netmon.NewStatic(netmon.StateConnected)
}

func (s *Service) selectLocationProviders() []locate.Provider {
	var provider []locate.Provider
	if s.config.Location.EnableFile {
		provider = append(provider, locate.NewFileProvider(s.config.Location.File))
	}
	if s.config.Location.EnableGPSD {
		provider = append(provider, locate.NewGPSDProvider(s.config.Location.GPSDHost,
			s.config.Location.GPSDPort))
	}
	return provider
}

// seedHomeLocation pins an initial home location when the cache slot is
// still empty. The first provider that yields a valid fix wins; its lookup
// result is stored as the new home snapshot.
func (s *Service) seedHomeLocation(ctx context.Context) {
	if _, ok := kvstore.Fetch[weather.Snapshot](s.store, weather.CacheKey); ok {
		return
	}

	for _, provider := range s.selectLocationProviders() {
		ctxLocate, cancelLocate := context.WithTimeout(ctx, LocateTimeout)
		fix, err := provider.Locate(ctxLocate)
		cancelLocate()
		if err != nil {
			s.logger.Warn("failed to locate home position", slog.String("provider", provider.Name()),
				logger.Err(err))
			continue
		}
		if !fix.Valid() {
			s.logger.Warn("location provider returned an invalid fix",
				slog.String("provider", provider.Name()))
			continue
		}

		snapshot, err := s.search.Result(ctx, fix.Query())
		if err != nil {
			s.logger.Warn("failed to resolve located home position", slog.String("provider", provider.Name()),
				logger.Err(err))
			continue
		}
		s.search.SaveAsHome(snapshot)
		s.logger.Info("seeded home location", slog.String("provider", provider.Name()),
			slog.String("city", snapshot.CityName))
		return
	}
}
