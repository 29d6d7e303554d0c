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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/carverauto/hostsentry/pkg/scan"
)

// Scan phase names, in execution order.
const (
	PhaseARPIngest  = "arp_ingest"
	PhasePingSweep  = "ping_sweep"
	PhaseReverseDNS = "reverse_dns"
	PhaseARPRefresh = "arp_refresh"
)

// PhaseResult describes one completed scan phase.
type PhaseResult struct {
	Name         string        `json:"name"`
	Duration     time.Duration `json:"duration"`
	Observations int           `json:"observations"`
	Error        string        `json:"error,omitempty"`
}

// ScanSummary describes one PerformFullScan run.
type ScanSummary struct {
	ID           string        `json:"id"`
	Subnet       string        `json:"subnet"`
	SubnetSource SubnetSource  `json:"subnet_source"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	Phases       []PhaseResult `json:"phases"`
	NewDevices   int           `json:"new_devices"`
	KnownDevices int           `json:"known_devices"`
	Revision     uint64        `json:"revision"`
}

type phase struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context, hosts []string) (int, error)
}

// PerformFullScan runs the four discovery phases in order. A failing or
// panicking phase is recorded in the summary and the next phase still runs.
// StopMonitoring halts a scan in progress; it does not block later scans.
// Results are committed to the registry as they arrive, so readers observe
// partial progress.
func (e *Engine) PerformFullScan(ctx context.Context) (*ScanSummary, error) {
	if !e.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer e.scanning.Store(false)

	// A new scan re-arms the flag that an earlier StopMonitoring cleared.
	// Scans started by the monitor loop still stop with its context.
	e.active.Store(true)

	summary := &ScanSummary{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
	}

	subnet, source := e.subnets.Detect(ctx, e.config.Subnet)
	summary.Subnet = subnet.String()
	summary.SubnetSource = source

	hosts, err := scan.ExpandCIDR(summary.Subnet)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidSubnet, summary.Subnet, err)
	}

	insertedBefore := e.inserted.Load()

	e.logger.Info().
		Str("scan_id", summary.ID).
		Str("subnet", summary.Subnet).
		Str("subnet_source", string(source)).
		Int("hosts", len(hosts)).
		Msg("Starting full network scan")

	phases := []phase{
		{PhaseARPIngest, e.config.ARPPhaseTimeout.Std(), e.ingestARP},
		{PhasePingSweep, e.config.PingSweepTimeout.Std(), e.pingSweep},
		{PhaseReverseDNS, e.config.DNSPhaseTimeout.Std(), e.reverseDNSSweep},
		{PhaseARPRefresh, e.config.ARPRefreshTimeout.Std(), e.refreshARP},
	}

	for _, p := range phases {
		if e.halted(ctx) {
			break
		}

		summary.Phases = append(summary.Phases, e.runPhase(ctx, summary.ID, p, hosts))
	}

	summary.FinishedAt = e.now()
	summary.NewDevices = int(e.inserted.Load() - insertedBefore)
	summary.KnownDevices = e.registry.Len()
	summary.Revision = e.registry.Revision()

	e.metrics.SetKnownDevices(summary.KnownDevices)

	e.logger.Info().
		Str("scan_id", summary.ID).
		Int("new_devices", summary.NewDevices).
		Int("known_devices", summary.KnownDevices).
		Dur("duration", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Full network scan finished")

	e.notifier.OnLogMessage(
		fmt.Sprintf("Network scan of %s finished: %d devices known, %d new",
			summary.Subnet, summary.KnownDevices, summary.NewDevices),
		models.LogLevelInfo,
	)

	return summary, nil
}

func (e *Engine) runPhase(ctx context.Context, scanID string, p phase, hosts []string) (result PhaseResult) {
	result.Name = p.name
	start := time.Now()

	phaseCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Sprintf("%v: phase panicked: %v", ErrProbePanic, r)
		}

		result.Duration = time.Since(start)
		e.metrics.ObserveScanPhase(p.name, result.Duration, result.Error != "")

		if result.Error != "" {
			e.logger.Warn().
				Str("scan_id", scanID).
				Str("phase", p.name).
				Str("error", result.Error).
				Msg("Scan phase failed")

			e.notifier.OnLogMessage(fmt.Sprintf("Scan phase %s failed: %s", p.name, result.Error), models.LogLevelWarning)

			return
		}

		e.logger.Debug().
			Str("scan_id", scanID).
			Str("phase", p.name).
			Int("observations", result.Observations).
			Dur("duration", result.Duration).
			Msg("Scan phase completed")
	}()

	n, err := p.run(phaseCtx, hosts)
	result.Observations = n

	if err != nil {
		result.Error = err.Error()
	}

	return result
}

// ingestARP feeds every ARP cache row through ProcessObservation.
func (e *Engine) ingestARP(ctx context.Context, _ []string) (int, error) {
	var entries []models.ARPEntry

	if err := guard("arp", "", func() { entries = e.gateway.ReadARPTable(ctx) }); err != nil {
		return 0, err
	}

	n := 0

	for _, entry := range entries {
		if e.halted(ctx) {
			break
		}

		if entry.IP == "" || models.IsUnknown(entry.MAC) {
			continue
		}

		e.ProcessObservation(&models.NetworkDevice{
			IPAddress:  entry.IP,
			MACAddress: entry.MAC,
			Vendor:     e.vendors.Lookup(entry.MAC),
			Hostname:   models.Unknown,
			Status:     models.StatusActive,
		})

		n++
	}

	return n, nil
}

// pingSweep probes every host behind the admission gate and fully enriches
// each responder.
func (e *Engine) pingSweep(ctx context.Context, hosts []string) (int, error) {
	var found atomic.Int64

	e.gated(ctx, hosts, func(ip string) {
		if e.probeHost(ctx, ip, e.config.PingTimeout.Std()) {
			found.Add(1)
		}
	})

	return int(found.Load()), nil
}

// reverseDNSSweep resolves unknown addresses and probes the ones that have a
// real PTR record.
func (e *Engine) reverseDNSSweep(ctx context.Context, hosts []string) (int, error) {
	var found atomic.Int64

	pending := make([]string, 0, len(hosts))

	for _, ip := range hosts {
		if !e.registry.Has(ip) {
			pending = append(pending, ip)
		}
	}

	e.gated(ctx, pending, func(ip string) {
		name := models.Unknown

		if err := guard("reverse_dns", ip, func() {
			name = e.gateway.ReverseDNS(ctx, ip, e.config.DNSTimeout.Std())
		}); err != nil {
			e.logger.Warn().Err(err).Str("ip", ip).Msg("Reverse DNS probe failed")

			return
		}

		if models.IsUnknown(name) || name == ip {
			return
		}

		if e.probeHost(ctx, ip, e.config.PingTimeout.Std()) {
			found.Add(1)
		}
	})

	return int(found.Load()), nil
}

// refreshARP warms the ARP cache with short pings and ingests it again.
func (e *Engine) refreshARP(ctx context.Context, hosts []string) (int, error) {
	warm := e.config.ARPWarmTimeout.Std()

	e.gated(ctx, hosts, func(ip string) {
		_ = e.safePing(ctx, ip, warm)
	})

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	return e.ingestARP(ctx, hosts)
}

// gated runs fn for each host with at most MaxConcurrentProbes in flight and
// returns once every started call has finished.
func (e *Engine) gated(ctx context.Context, hosts []string, fn func(ip string)) {
	gate := semaphore.NewWeighted(int64(e.config.MaxConcurrentProbes))

	var g errgroup.Group

	for _, ip := range hosts {
		if e.halted(ctx) {
			break
		}

		if err := gate.Acquire(ctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer gate.Release(1)

			if e.halted(ctx) {
				return nil
			}

			fn(ip)

			return nil
		})
	}

	_ = g.Wait()
}

// probeHost pings ip and, on a reply, enriches and records it. A mechanism
// failure marks a known device as Error.
func (e *Engine) probeHost(ctx context.Context, ip string, timeout time.Duration) bool {
	res := e.safePing(ctx, ip, timeout)

	if res.Err != nil {
		e.logger.Warn().Err(res.Err).Str("ip", ip).Msg("Reachability probe failed")
		e.markError(ip)

		return false
	}

	if !res.Success {
		return false
	}

	e.ProcessObservation(e.enrich(ctx, ip, res))

	return true
}

// enrich gathers identity for a responding host. Each step is independent;
// a panicking step marks the observation as Error but keeps what was learned.
func (e *Engine) enrich(ctx context.Context, ip string, res models.PingResult) *models.NetworkDevice {
	d := &models.NetworkDevice{
		IPAddress:    ip,
		MACAddress:   models.Unknown,
		Hostname:     models.Unknown,
		Vendor:       models.Unknown,
		Status:       models.StatusActive,
		ResponseTime: res.RTT,
	}

	steps := []struct {
		op string
		fn func()
	}{
		{"local_mac", func() { d.MACAddress = e.gateway.LocalMAC(ctx, ip) }},
		{"reverse_dns", func() { d.Hostname = e.gateway.ReverseDNS(ctx, ip, e.config.DNSTimeout.Std()) }},
		{"scan_ports", func() { d.OpenPorts = e.gateway.ScanPorts(ctx, ip, e.config.Ports, e.config.PortTimeout.Std()) }},
		{"describe", func() { d.Description = e.gateway.Describe(ctx, ip) }},
	}

	for _, step := range steps {
		if err := guard(step.op, ip, step.fn); err != nil {
			e.logger.Warn().Err(err).Str("ip", ip).Msg("Enrichment probe failed")
			d.Status = models.StatusError
		}
	}

	if !models.IsUnknown(d.MACAddress) {
		d.Vendor = e.vendors.Lookup(d.MACAddress)
	}

	return d
}

func (e *Engine) markError(ip string) {
	updated, ok := e.registry.SetStatus(ip, models.StatusError, 0, e.now())
	if !ok {
		return
	}

	e.notifier.OnDeviceStatusChanged(updated)
}
