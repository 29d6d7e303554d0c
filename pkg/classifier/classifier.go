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

// Package classifier maps noisy probe signals (MAC, hostname, vendor, open
// ports) to a device type, an operating system guess and an advisory risk score.
package classifier

import (
	"strings"

	"github.com/carverauto/hostsentry/pkg/models"
)

// Device type tags produced by Classify.
const (
	TypeMulticast      = "multicast"
	TypeBroadcast      = "broadcast"
	TypeIPv6Multicast  = "IPv6 multicast"
	TypePhone          = "phone"
	TypeTablet         = "tablet"
	TypeComputer       = "computer"
	TypeTV             = "TV"
	TypeWatch          = "watch"
	TypeAudio          = "audio device"
	TypeRouter         = "router"
	TypePrinter        = "printer"
	TypeCamera         = "camera"
	TypeGameConsole    = "gaming console"
	TypeMobile         = "mobile device"
	TypeVirtualMachine = "virtual machine"
	TypeContainer      = "container"
	TypeSingleBoard    = "single-board computer"
	TypeIoT            = "IoT device"
	TypeNAS            = "NAS"
	TypeWindowsHost    = "Windows computer"
	TypeUnixHost       = "Unix/Linux host"
	TypeAppleDevice    = "Apple device"
	TypeNetworkDevice  = "network device"
	TypeWebServer      = "web server"
	TypeUnknown        = "unknown device"
)

// Observation is the subset of a probe result the classifier looks at.
type Observation struct {
	MACAddress  string
	Hostname    string
	Vendor      string
	Description string
	OpenPorts   []int
}

// Result is the outcome of Classify.
type Result struct {
	DeviceType      string
	OperatingSystem string
	RiskScore       int
	RiskLevel       models.RiskLevel
}

// ObservationFrom builds an Observation from a device record.
func ObservationFrom(d *models.NetworkDevice) Observation {
	if d == nil {
		return Observation{}
	}

	return Observation{
		MACAddress:  d.MACAddress,
		Hostname:    d.Hostname,
		Vendor:      d.Vendor,
		Description: d.Description,
		OpenPorts:   append([]int(nil), d.OpenPorts...),
	}
}

// Classify is pure: identical observations always produce identical results.
func Classify(obs Observation) Result {
	ports := portSet(obs.OpenPorts)

	deviceType := inferDeviceType(obs, ports)
	operatingSystem := inferOperatingSystem(obs, deviceType, ports)
	score := riskScore(obs, deviceType, ports)

	return Result{
		DeviceType:      deviceType,
		OperatingSystem: operatingSystem,
		RiskScore:       score,
		RiskLevel:       LevelFor(score),
	}
}

// Apply classifies d and writes the result back onto it.
func Apply(d *models.NetworkDevice) Result {
	res := Classify(ObservationFrom(d))

	d.DeviceType = res.DeviceType
	d.OperatingSystem = res.OperatingSystem
	d.RiskScore = res.RiskScore
	d.RiskLevel = res.RiskLevel

	return res
}

func inferDeviceType(obs Observation, ports map[int]struct{}) string {
	if special, ok := specialMACClass(obs.MACAddress); ok {
		return special
	}

	if !models.IsUnknown(obs.Hostname) {
		if t, ok := matchRules(obs.Hostname, hostnameTypeRules); ok {
			return t
		}
	}

	if !models.IsUnknown(obs.Vendor) {
		if t, ok := matchRules(obs.Vendor, vendorTypeRules); ok {
			return t
		}
	}

	if t, ok := typeFromPorts(ports); ok {
		return t
	}

	return TypeUnknown
}

func specialMACClass(mac string) (string, bool) {
	normalized := normalizeMAC(mac)

	switch {
	case normalized == "":
		return "", false
	case strings.HasPrefix(normalized, "01005E"):
		return TypeMulticast, true
	case normalized == "FFFFFFFFFFFF":
		return TypeBroadcast, true
	case strings.HasPrefix(normalized, "3333"):
		return TypeIPv6Multicast, true
	}

	return "", false
}

func typeFromPorts(ports map[int]struct{}) (string, bool) {
	web := hasAny(ports, 80, 443)
	remote := hasAny(ports, 22, 23)

	switch {
	case hasAny(ports, 3389):
		return TypeWindowsHost, true
	case hasAny(ports, 22) && !hasAny(ports, 80):
		return TypeUnixHost, true
	case hasAny(ports, 5353):
		return TypeAppleDevice, true
	case web && remote:
		return TypeNetworkDevice, true
	case web:
		return TypeWebServer, true
	}

	return "", false
}

func normalizeMAC(mac string) string {
	var b strings.Builder

	for _, r := range mac {
		switch r {
		case ':', '-', '.', ' ':
			continue
		}

		b.WriteRune(r)
	}

	return strings.ToUpper(b.String())
}

func portSet(ports []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ports))
	for _, p := range ports {
		set[p] = struct{}{}
	}

	return set
}

func hasAny(ports map[int]struct{}, candidates ...int) bool {
	for _, p := range candidates {
		if _, ok := ports[p]; ok {
			return true
		}
	}

	return false
}
