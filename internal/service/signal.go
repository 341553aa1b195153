// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"os"
)

// HandleRefreshSignal forces an immediate refresh when a signal is received,
// typically SIGUSR1 sent from a bar on-click handler.
func (s *Service) HandleRefreshSignal(ctx context.Context, sigChan chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			s.refresh(ctx)
		}
	}
}
