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

package models

import (
	"sort"
	"strings"
	"time"
)

// DeviceStatus is the reachability state of a discovered device.
type DeviceStatus string

const (
	StatusUnknown     DeviceStatus = "Unknown"
	StatusActive      DeviceStatus = "Active"
	StatusUnreachable DeviceStatus = "Unreachable"
	StatusError       DeviceStatus = "Error"
)

// RiskLevel is the advisory bucket derived from a risk score.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "Safe"
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// NetworkDevice is one entry of the discovery registry, keyed by IPAddress.
// Revision is the registry revision of the commit that produced the copy;
// consumers drop updates older than one they already applied.
type NetworkDevice struct {
	IPAddress       string        `json:"ip_address"`
	MACAddress      string        `json:"mac_address"`
	Hostname        string        `json:"hostname"`
	Vendor          string        `json:"vendor"`
	DeviceType      string        `json:"device_type"`
	OperatingSystem string        `json:"operating_system"`
	Status          DeviceStatus  `json:"status"`
	FirstSeen       time.Time     `json:"first_seen"`
	LastSeen        time.Time     `json:"last_seen"`
	IsNew           bool          `json:"is_new"`
	OpenPorts       []int         `json:"open_ports,omitempty"`
	Description     string        `json:"description,omitempty"`
	RiskScore       int           `json:"risk_score"`
	RiskLevel       RiskLevel     `json:"risk_level"`
	ResponseTime    time.Duration `json:"response_time"`
	Revision        uint64        `json:"revision"`
}

// Clone returns a deep copy safe to hand to other goroutines.
func (d *NetworkDevice) Clone() *NetworkDevice {
	if d == nil {
		return nil
	}

	c := *d
	if d.OpenPorts != nil {
		c.OpenPorts = append([]int(nil), d.OpenPorts...)
	}

	return &c
}

// HasPort reports whether port is in the open port set.
func (d *NetworkDevice) HasPort(port int) bool {
	for _, p := range d.OpenPorts {
		if p == port {
			return true
		}
	}

	return false
}

// NormalizePorts returns the ports as a sorted set without duplicates or
// out-of-range values.
func NormalizePorts(ports []int) []int {
	if len(ports) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(ports))
	out := make([]int, 0, len(ports))

	for _, p := range ports {
		if p <= 0 || p > 65535 {
			continue
		}

		if _, ok := seen[p]; ok {
			continue
		}

		seen[p] = struct{}{}
		out = append(out, p)
	}

	sort.Ints(out)

	return out
}

// IsUnknown reports whether a resolved value is empty or the Unknown placeholder.
func IsUnknown(s string) bool {
	s = strings.TrimSpace(s)

	return s == "" || strings.EqualFold(s, Unknown) || strings.EqualFold(s, "unknown device")
}

// VendorEntry maps a 24-bit MAC prefix to a vendor name.
type VendorEntry struct {
	MACPrefix  string `json:"mac_prefix"`
	VendorName string `json:"vendor_name"`
}
