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

// Package discovery inventories devices on the local network. It runs a
// multi-phase scan over a ProbeGateway, merges observations into a registry
// and reports new devices and status changes to a Notifier.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// Engine owns the device registry and drives scans against a ProbeGateway.
type Engine struct {
	config   *Config
	gateway  ProbeGateway
	vendors  VendorLookup
	notifier Notifier
	metrics  MetricsRecorder
	logger   logger.Logger
	registry *Registry
	subnets  *SubnetDetector
	now      func() time.Time

	// active is cleared by StopMonitoring and set again when a scan starts;
	// phase loops check it between probes.
	active   atomic.Bool
	scanning atomic.Bool
	inserted atomic.Int64

	monitorMu     sync.Mutex
	monitorCancel context.CancelFunc
	monitorDone   chan struct{}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithVendorLookup attaches the MAC vendor catalog.
func WithVendorLookup(v VendorLookup) Option {
	return func(e *Engine) {
		if v != nil {
			e.vendors = v
		}
	}
}

// WithMetrics attaches an instrumentation hook.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithSubnetDetector replaces the local subnet detection chain.
func WithSubnetDetector(d *SubnetDetector) Option {
	return func(e *Engine) {
		if d != nil {
			e.subnets = d
		}
	}
}

// WithClock overrides the clock used for FirstSeen/LastSeen.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine. The config is validated (and defaulted) in place.
func New(config *Config, gateway ProbeGateway, notifier Notifier, log logger.Logger, opts ...Option) (*Engine, error) {
	if config == nil {
		return nil, ErrConfigNil
	}

	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	if notifier == nil {
		return nil, ErrNotifierRequired
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid discovery configuration: %w", err)
	}

	e := &Engine{
		config:   config,
		gateway:  gateway,
		vendors:  unknownVendors{},
		notifier: notifier,
		metrics:  nopMetrics{},
		logger:   log,
		registry: NewRegistry(),
		subnets:  NewSubnetDetector(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.active.Store(true)

	return e, nil
}

// ProcessObservation merges candidate into the registry and emits
// OnNewDeviceDetected for an unseen IP or OnDeviceStatusChanged otherwise.
// Notifications are sent after the registry lock is released.
func (e *Engine) ProcessObservation(candidate *models.NetworkDevice) *models.NetworkDevice {
	if candidate == nil || candidate.IPAddress == "" {
		return nil
	}

	device, inserted := e.registry.Merge(candidate, e.now())

	if inserted {
		e.inserted.Add(1)
		e.metrics.ObserveNewDevice()
		e.metrics.SetKnownDevices(e.registry.Len())

		e.logger.Info().
			Str("ip", device.IPAddress).
			Str("mac", device.MACAddress).
			Str("vendor", device.Vendor).
			Str("device_type", device.DeviceType).
			Msg("New device detected")

		e.notifier.OnNewDeviceDetected(device)

		return device
	}

	e.notifier.OnDeviceStatusChanged(device)

	return device
}

// RefreshStatuses pings every known device concurrently and reports only
// actual status transitions. It returns the number of transitions.
func (e *Engine) RefreshStatuses(ctx context.Context) int {
	devices := e.registry.Snapshot()
	timeout := e.config.RefreshTimeout.Std()

	var (
		g       errgroup.Group
		changed atomic.Int64
	)

	for _, d := range devices {
		ip := d.IPAddress

		g.Go(func() error {
			res := e.safePing(ctx, ip, timeout)

			status := models.StatusUnreachable

			switch {
			case res.Err != nil:
				status = models.StatusError

				e.logger.Warn().Err(res.Err).Str("ip", ip).Msg("Status probe failed")
			case res.Success:
				status = models.StatusActive
			}

			if ctx.Err() != nil && status != models.StatusActive {
				return nil
			}

			updated, ok := e.registry.SetStatus(ip, status, res.RTT, e.now())
			if !ok {
				return nil
			}

			changed.Add(1)

			e.logger.Info().
				Str("ip", ip).
				Str("status", string(updated.Status)).
				Msg("Device status changed")

			e.notifier.OnDeviceStatusChanged(updated)

			return nil
		})
	}

	_ = g.Wait()

	return int(changed.Load())
}

// Devices returns a snapshot of the registry ordered by IP.
func (e *Engine) Devices() []*models.NetworkDevice {
	return e.registry.Snapshot()
}

// Device returns a snapshot of one device.
func (e *Engine) Device(ip string) (*models.NetworkDevice, bool) {
	return e.registry.Get(ip)
}

// Revision lets readers detect registry changes without diffing.
func (e *Engine) Revision() uint64 {
	return e.registry.Revision()
}

// Remove forgets ip so that it is announced as new when seen again.
func (e *Engine) Remove(ip string) bool {
	removed := e.registry.Remove(ip)
	if removed {
		e.metrics.SetKnownDevices(e.registry.Len())
	}

	return removed
}

// Clear forgets every device.
func (e *Engine) Clear() int {
	n := e.registry.Clear()
	e.metrics.SetKnownDevices(0)

	return n
}

func (e *Engine) halted(ctx context.Context) bool {
	return !e.active.Load() || ctx.Err() != nil
}

// safePing converts a panicking gateway into a mechanism failure.
func (e *Engine) safePing(ctx context.Context, ip string, timeout time.Duration) (res models.PingResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.PingResult{Err: fmt.Errorf("%w: ping %s: %v", ErrProbePanic, ip, r)}
		}
	}()

	return e.gateway.Ping(ctx, ip, timeout)
}

// guard runs one gateway call and reports a panic as an error.
func guard(op, ip string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s %s: %v", ErrProbePanic, op, ip, r)
		}
	}()

	fn()

	return nil
}
