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
	"bytes"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carverauto/hostsentry/pkg/classifier"
	"github.com/carverauto/hostsentry/pkg/models"
)

// Registry is the device table keyed by IP address. Every read and write
// happens under mu; callers only ever receive clones.
type Registry struct {
	mu       sync.Mutex
	devices  map[string]*models.NetworkDevice
	revision uint64
}

func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*models.NetworkDevice)}
}

// Merge inserts candidate or folds it into the existing record for the same
// IP. It returns a clone of the stored record and whether it was inserted.
//
// Identity fields (MAC, vendor, device type) only move from unknown to known.
// Hostname changes are accepted unless the candidate is the placeholder.
// FirstSeen and IPAddress are never changed after insertion.
func (r *Registry) Merge(candidate *models.NetworkDevice, now time.Time) (*models.NetworkDevice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.devices[candidate.IPAddress]
	if !ok {
		d := candidate.Clone()
		d.FirstSeen = now
		d.LastSeen = now
		d.IsNew = true
		d.OpenPorts = models.NormalizePorts(d.OpenPorts)
		fillPlaceholders(d)
		classifier.Apply(d)

		r.devices[d.IPAddress] = d
		r.revision++
		d.Revision = r.revision

		return d.Clone(), true
	}

	if candidate.Status != "" {
		existing.Status = candidate.Status
	}

	existing.LastSeen = now
	existing.IsNew = false

	if models.IsUnknown(existing.MACAddress) && !models.IsUnknown(candidate.MACAddress) {
		existing.MACAddress = candidate.MACAddress
	}

	if models.IsUnknown(existing.Vendor) && !models.IsUnknown(candidate.Vendor) {
		existing.Vendor = candidate.Vendor
	}

	if models.IsUnknown(existing.DeviceType) && !models.IsUnknown(candidate.DeviceType) {
		existing.DeviceType = candidate.DeviceType
	}

	if !models.IsUnknown(candidate.Hostname) && candidate.Hostname != existing.Hostname {
		existing.Hostname = candidate.Hostname
	}

	if ports := models.NormalizePorts(candidate.OpenPorts); len(ports) > 0 {
		existing.OpenPorts = ports
	}

	if candidate.Description != "" {
		existing.Description = candidate.Description
	}

	if candidate.ResponseTime > 0 {
		existing.ResponseTime = candidate.ResponseTime
	}

	reclassify(existing)
	r.revision++
	existing.Revision = r.revision

	return existing.Clone(), false
}

// SetStatus records a reachability result for a known device. It returns
// a clone and true only when the status actually changed.
func (r *Registry) SetStatus(ip string, status models.DeviceStatus, rtt time.Duration, now time.Time) (*models.NetworkDevice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[ip]
	if !ok {
		return nil, false
	}

	if status == models.StatusActive {
		d.LastSeen = now
		d.ResponseTime = rtt
	}

	if d.Status == status {
		return nil, false
	}

	d.Status = status
	r.revision++
	d.Revision = r.revision

	return d.Clone(), true
}

// Get returns a clone of the device at ip.
func (r *Registry) Get(ip string) (*models.NetworkDevice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[ip]
	if !ok {
		return nil, false
	}

	return d.Clone(), true
}

// Has reports whether ip is known.
func (r *Registry) Has(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.devices[ip]

	return ok
}

// Snapshot returns clones of all devices ordered by IP address.
func (r *Registry) Snapshot() []*models.NetworkDevice {
	r.mu.Lock()
	out := make([]*models.NetworkDevice, 0, len(r.devices))

	for _, d := range r.devices {
		out = append(out, d.Clone())
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return compareIP(out[i].IPAddress, out[j].IPAddress) < 0
	})

	return out
}

// Remove deletes ip. A later observation of it is announced as new again.
func (r *Registry) Remove(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[ip]; !ok {
		return false
	}

	delete(r.devices, ip)
	r.revision++

	return true
}

// Clear drops every device and returns how many were removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.devices)
	if n == 0 {
		return 0
	}

	r.devices = make(map[string]*models.NetworkDevice)
	r.revision++

	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.devices)
}

// Revision increases on every committed mutation.
func (r *Registry) Revision() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.revision
}

func fillPlaceholders(d *models.NetworkDevice) {
	for _, field := range []*string{&d.MACAddress, &d.Hostname, &d.Vendor} {
		if models.IsUnknown(*field) {
			*field = models.Unknown
		}
	}

	if d.Status == "" {
		d.Status = models.StatusUnknown
	}
}

// reclassify refreshes the derived fields after a merge. A device type
// learned earlier is kept unless it was unresolved.
func reclassify(d *models.NetworkDevice) {
	res := classifier.Classify(classifier.ObservationFrom(d))

	if models.IsUnknown(d.DeviceType) {
		d.DeviceType = res.DeviceType
	}

	if models.IsUnknown(d.OperatingSystem) {
		d.OperatingSystem = res.OperatingSystem
	}

	d.RiskScore = res.RiskScore
	d.RiskLevel = res.RiskLevel
}

func compareIP(a, b string) int {
	ipA, ipB := net.ParseIP(a), net.ParseIP(b)
	if ipA == nil || ipB == nil {
		return strings.Compare(a, b)
	}

	return bytes.Compare(ipA.To16(), ipB.To16())
}
