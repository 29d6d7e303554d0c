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

//go:generate mockgen -destination=mock_discovery.go -package=discovery github.com/carverauto/hostsentry/pkg/discovery ProbeGateway,Notifier

package discovery

import (
	"context"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

// ProbeGateway issues best-effort network probes. Implementations report
// failure through sentinel values ("Unknown", empty slices, a false
// PingResult) and set PingResult.Err only when the mechanism itself broke.
type ProbeGateway interface {
	Ping(ctx context.Context, ip string, timeout time.Duration) models.PingResult
	ReadARPTable(ctx context.Context) []models.ARPEntry
	ReverseDNS(ctx context.Context, ip string, timeout time.Duration) string
	ScanPorts(ctx context.Context, ip string, ports []int, timeout time.Duration) []int
	LocalMAC(ctx context.Context, ip string) string
	Describe(ctx context.Context, ip string) string
}

// VendorLookup maps a MAC address to a vendor name.
type VendorLookup interface {
	Lookup(mac string) string
}

// Notifier receives device lifecycle events. Commits for one device are
// serialized by the registry, but delivery happens after the lock is released,
// so two events for the same device may arrive out of commit order. Each
// device carries the Revision of its commit; a higher Revision is newer.
type Notifier interface {
	OnNewDeviceDetected(device *models.NetworkDevice)
	OnDeviceStatusChanged(device *models.NetworkDevice)
	OnLogMessage(text string, level models.LogLevel)
}

// MetricsRecorder is the optional instrumentation hook.
type MetricsRecorder interface {
	ObserveScanPhase(phase string, duration time.Duration, failed bool)
	ObserveNewDevice()
	SetKnownDevices(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveScanPhase(string, time.Duration, bool) {}
func (nopMetrics) ObserveNewDevice()                           {}
func (nopMetrics) SetKnownDevices(int)                         {}

type unknownVendors struct{}

func (unknownVendors) Lookup(string) string { return models.Unknown }
