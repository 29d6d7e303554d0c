/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

// StartMonitoring runs a full scan immediately and then every ScanInterval,
// and refreshes device statuses every RefreshInterval, until StopMonitoring
// or ctx is done.
func (e *Engine) StartMonitoring(ctx context.Context) error {
	e.monitorMu.Lock()
	defer e.monitorMu.Unlock()

	if e.monitorCancel != nil {
		return ErrAlreadyMonitoring
	}

	e.active.Store(true)

	monitorCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	e.monitorCancel = cancel
	e.monitorDone = done

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		e.scanLoop(monitorCtx)
	}()

	go func() {
		defer wg.Done()

		e.refreshLoop(monitorCtx)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	e.logger.Info().
		Dur("scan_interval", e.config.ScanInterval.Std()).
		Dur("refresh_interval", e.config.RefreshInterval.Std()).
		Msg("Network monitoring started")

	return nil
}

// StopMonitoring clears the running flag so in-flight phase loops exit
// between probes, and cancels the monitoring loops. It does not wait.
func (e *Engine) StopMonitoring() {
	e.active.Store(false)

	e.monitorMu.Lock()
	cancel := e.monitorCancel
	e.monitorCancel = nil
	e.monitorMu.Unlock()

	if cancel == nil {
		return
	}

	cancel()

	e.logger.Info().Msg("Network monitoring stopped")
}

// IsMonitoring reports whether the background loops are running.
func (e *Engine) IsMonitoring() bool {
	e.monitorMu.Lock()
	defer e.monitorMu.Unlock()

	return e.monitorCancel != nil
}

// Start implements lifecycle.Service.
func (e *Engine) Start(ctx context.Context) error {
	return e.StartMonitoring(ctx)
}

// Stop implements lifecycle.Service. It waits for the loops to exit or ctx.
func (e *Engine) Stop(ctx context.Context) error {
	e.monitorMu.Lock()
	done := e.monitorDone
	e.monitorMu.Unlock()

	e.StopMonitoring()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(e.config.ScanInterval.Std())
	defer ticker.Stop()

	e.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.scanOnce(ctx)
		}
	}
}

func (e *Engine) scanOnce(ctx context.Context) {
	if _, err := e.PerformFullScan(ctx); err != nil {
		if errors.Is(err, ErrScanInProgress) {
			e.logger.Debug().Msg("Skipping scheduled scan, previous scan still running")

			return
		}

		e.logger.Error().Err(err).Msg("Scheduled network scan failed")
		e.notifier.OnLogMessage("Scheduled network scan failed: "+err.Error(), models.LogLevelError)
	}
}

func (e *Engine) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(e.config.RefreshInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := e.RefreshStatuses(ctx); n > 0 {
				e.logger.Debug().Int("transitions", n).Msg("Device statuses refreshed")
			}
		}
	}
}
