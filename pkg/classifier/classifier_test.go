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

package classifier

import (
	"testing"

	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify_RiskScenario(t *testing.T) {
	res := Classify(Observation{
		Vendor:    models.Unknown,
		OpenPorts: []int{80, 443, 22},
	})

	assert.Equal(t, 24, res.RiskScore)
	assert.Equal(t, models.RiskHigh, res.RiskLevel)
	assert.Equal(t, TypeNetworkDevice, res.DeviceType)
}

func TestClassify_HostnamePrecedence(t *testing.T) {
	res := Classify(Observation{Hostname: "iphone-router", Vendor: "Cisco Systems"})

	assert.Equal(t, TypePhone, res.DeviceType)
	assert.Equal(t, OSIOS, res.OperatingSystem)
}

func TestClassify_IsDeterministic(t *testing.T) {
	obs := Observation{
		MACAddress: "B8:27:EB:11:22:33",
		Hostname:   "raspberrypi",
		Vendor:     "Raspberry Pi Foundation",
		OpenPorts:  []int{22, 8080},
	}

	first := Classify(obs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(obs))
	}
}

func TestClassify_DeviceTypeOrder(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		want string
	}{
		{
			name: "ipv4 multicast beats hostname",
			obs:  Observation{MACAddress: "01:00:5e:00:00:fb", Hostname: "iphone"},
			want: TypeMulticast,
		},
		{
			name: "broadcast",
			obs:  Observation{MACAddress: "ff:ff:ff:ff:ff:ff"},
			want: TypeBroadcast,
		},
		{
			name: "ipv6 multicast",
			obs:  Observation{MACAddress: "33-33-00-00-00-01"},
			want: TypeIPv6Multicast,
		},
		{
			name: "tablet hostname",
			obs:  Observation{Hostname: "Kids-iPad"},
			want: TypeTablet,
		},
		{
			name: "printer hostname",
			obs:  Observation{Hostname: "HP-LaserJet-M404"},
			want: TypePrinter,
		},
		{
			name: "hostname beats vendor",
			obs:  Observation{Hostname: "living-room-roku", Vendor: "Apple, Inc."},
			want: TypeTV,
		},
		{
			name: "vendor when hostname unresolved",
			obs:  Observation{Hostname: models.Unknown, Vendor: "Hikvision Digital Technology"},
			want: TypeCamera,
		},
		{
			name: "virtualization vendor",
			obs:  Observation{Vendor: "VMware, Inc."},
			want: TypeVirtualMachine,
		},
		{
			name: "rdp port",
			obs:  Observation{OpenPorts: []int{3389, 80}},
			want: TypeWindowsHost,
		},
		{
			name: "ssh without http",
			obs:  Observation{OpenPorts: []int{22, 443}},
			want: TypeUnixHost,
		},
		{
			name: "mdns",
			obs:  Observation{OpenPorts: []int{5353}},
			want: TypeAppleDevice,
		},
		{
			name: "web only",
			obs:  Observation{OpenPorts: []int{443}},
			want: TypeWebServer,
		},
		{
			name: "telnet and http",
			obs:  Observation{OpenPorts: []int{23, 80}},
			want: TypeNetworkDevice,
		},
		{
			name: "nothing known",
			obs:  Observation{Hostname: models.Unknown, Vendor: models.Unknown},
			want: TypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.obs).DeviceType)
		})
	}
}

func TestClassify_OperatingSystem(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		want string
	}{
		{name: "windows default hostname", obs: Observation{Hostname: "DESKTOP-4F2K9QA"}, want: OSWindows},
		{name: "apple laptop", obs: Observation{Hostname: "alices-macbook-pro"}, want: OSMacOS},
		{name: "apple vendor phone type", obs: Observation{Hostname: "my-phone", Vendor: "Apple, Inc."}, want: OSIOS},
		{name: "snmp description", obs: Observation{Description: "Linux nas 5.10.0 x86_64"}, want: OSLinux},
		{name: "router vendor", obs: Observation{Vendor: "Routerboard.com"}, want: OSRouterOS},
		{name: "embedded camera", obs: Observation{Vendor: "Reolink Innovation"}, want: OSEmbedded},
		{name: "smb port", obs: Observation{OpenPorts: []int{445}}, want: OSWindows},
		{name: "ssh port", obs: Observation{OpenPorts: []int{22}}, want: OSLinux},
		{name: "broadcast stays unknown", obs: Observation{MACAddress: "FF:FF:FF:FF:FF:FF", Hostname: "ubuntu"}, want: OSUnknown},
		{name: "nothing", obs: Observation{}, want: OSUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.obs).OperatingSystem)
		})
	}
}

func TestClassify_CameraRisk(t *testing.T) {
	res := Classify(Observation{Vendor: "Hikvision", OpenPorts: []int{80, 554}})

	// 2*2 ports + 3 web + 3 camera
	assert.Equal(t, 10, res.RiskScore)
	assert.Equal(t, models.RiskMedium, res.RiskLevel)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, models.RiskSafe, LevelFor(0))
	assert.Equal(t, models.RiskSafe, LevelFor(2))
	assert.Equal(t, models.RiskLow, LevelFor(3))
	assert.Equal(t, models.RiskMedium, LevelFor(8))
	assert.Equal(t, models.RiskHigh, LevelFor(15))
}

func TestApply(t *testing.T) {
	d := &models.NetworkDevice{
		IPAddress: "192.168.1.20",
		Hostname:  "office-printer",
		Vendor:    "Brother Industries",
		OpenPorts: []int{9100},
	}

	res := Apply(d)

	assert.Equal(t, TypePrinter, d.DeviceType)
	assert.Equal(t, OSEmbedded, d.OperatingSystem)
	assert.Equal(t, res.RiskScore, d.RiskScore)
	assert.Equal(t, models.RiskSafe, d.RiskLevel)
}
