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
	"fmt"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	defaultMaxConcurrentProbes = 50
	defaultPingTimeout         = time.Second
	defaultPortTimeout         = 500 * time.Millisecond
	defaultDNSTimeout          = 2 * time.Second
	defaultARPWarmTimeout      = 100 * time.Millisecond
	defaultRefreshTimeout      = time.Second
	defaultARPPhaseTimeout     = 30 * time.Second
	defaultPingSweepTimeout    = 3 * time.Minute
	defaultDNSPhaseTimeout     = 30 * time.Second
	defaultARPRefreshTimeout   = 30 * time.Second
	defaultScanInterval        = 5 * time.Minute
	defaultRefreshInterval     = 30 * time.Second
)

// DefaultPorts is the port list probed on every responding host.
var DefaultPorts = []int{21, 22, 23, 25, 53, 80, 110, 135, 139, 143, 443, 445, 548, 554, 1883, 3389, 5353, 8080, 8443, 9100, 62078}

// Config controls the discovery engine.
type Config struct {
	// Subnet overrides local subnet detection when set (CIDR notation).
	Subnet              string          `json:"subnet,omitempty" yaml:"subnet,omitempty"`
	MaxConcurrentProbes int             `json:"max_concurrent_probes" yaml:"max_concurrent_probes"`
	Ports               []int           `json:"ports" yaml:"ports"`
	PingTimeout         models.Duration `json:"ping_timeout" yaml:"ping_timeout"`
	PortTimeout         models.Duration `json:"port_timeout" yaml:"port_timeout"`
	DNSTimeout          models.Duration `json:"dns_timeout" yaml:"dns_timeout"`
	ARPWarmTimeout      models.Duration `json:"arp_warm_timeout" yaml:"arp_warm_timeout"`
	RefreshTimeout      models.Duration `json:"refresh_timeout" yaml:"refresh_timeout"`
	ARPPhaseTimeout     models.Duration `json:"arp_phase_timeout" yaml:"arp_phase_timeout"`
	PingSweepTimeout    models.Duration `json:"ping_sweep_timeout" yaml:"ping_sweep_timeout"`
	DNSPhaseTimeout     models.Duration `json:"dns_phase_timeout" yaml:"dns_phase_timeout"`
	ARPRefreshTimeout   models.Duration `json:"arp_refresh_timeout" yaml:"arp_refresh_timeout"`
	ScanInterval        models.Duration `json:"scan_interval" yaml:"scan_interval"`
	RefreshInterval     models.Duration `json:"refresh_interval" yaml:"refresh_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxConcurrentProbes: defaultMaxConcurrentProbes,
		Ports:               append([]int(nil), DefaultPorts...),
		PingTimeout:         models.Duration(defaultPingTimeout),
		PortTimeout:         models.Duration(defaultPortTimeout),
		DNSTimeout:          models.Duration(defaultDNSTimeout),
		ARPWarmTimeout:      models.Duration(defaultARPWarmTimeout),
		RefreshTimeout:      models.Duration(defaultRefreshTimeout),
		ARPPhaseTimeout:     models.Duration(defaultARPPhaseTimeout),
		PingSweepTimeout:    models.Duration(defaultPingSweepTimeout),
		DNSPhaseTimeout:     models.Duration(defaultDNSPhaseTimeout),
		ARPRefreshTimeout:   models.Duration(defaultARPRefreshTimeout),
		ScanInterval:        models.Duration(defaultScanInterval),
		RefreshInterval:     models.Duration(defaultRefreshInterval),
	}
}

// Validate fills zero values with defaults and rejects invalid settings.
func (c *Config) Validate() error {
	if c.MaxConcurrentProbes < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, c.MaxConcurrentProbes)
	}

	if c.MaxConcurrentProbes == 0 {
		c.MaxConcurrentProbes = defaultMaxConcurrentProbes
	}

	if c.Subnet != "" {
		if _, err := ParseSubnet(c.Subnet); err != nil {
			return err
		}
	}

	if c.Ports == nil {
		c.Ports = append([]int(nil), DefaultPorts...)
	}

	c.Ports = models.NormalizePorts(c.Ports)

	durations := []struct {
		name  string
		value *models.Duration
		def   time.Duration
	}{
		{"ping_timeout", &c.PingTimeout, defaultPingTimeout},
		{"port_timeout", &c.PortTimeout, defaultPortTimeout},
		{"dns_timeout", &c.DNSTimeout, defaultDNSTimeout},
		{"arp_warm_timeout", &c.ARPWarmTimeout, defaultARPWarmTimeout},
		{"refresh_timeout", &c.RefreshTimeout, defaultRefreshTimeout},
		{"arp_phase_timeout", &c.ARPPhaseTimeout, defaultARPPhaseTimeout},
		{"ping_sweep_timeout", &c.PingSweepTimeout, defaultPingSweepTimeout},
		{"dns_phase_timeout", &c.DNSPhaseTimeout, defaultDNSPhaseTimeout},
		{"arp_refresh_timeout", &c.ARPRefreshTimeout, defaultARPRefreshTimeout},
		{"scan_interval", &c.ScanInterval, defaultScanInterval},
		{"refresh_interval", &c.RefreshInterval, defaultRefreshInterval},
	}

	for _, d := range durations {
		if *d.value < 0 {
			return fmt.Errorf("%w: %s is %v", ErrInvalidInterval, d.name, d.value.Std())
		}

		*d.value = models.Duration(d.value.Or(d.def))
	}

	return nil
}
