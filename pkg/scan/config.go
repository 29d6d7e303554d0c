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

package scan

import (
	"fmt"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	defaultPingRate        = 200 // echo requests per second
	defaultPingBurst       = 50
	defaultPortTimeout     = 500 * time.Millisecond
	defaultPortConcurrency = 16
	defaultDNSTimeout      = 2 * time.Second
	defaultARPPath         = "/proc/net/arp"
	defaultSNMPPort        = 161
	defaultSNMPTimeout     = 2 * time.Second
	defaultSNMPRetries     = 1
	defaultSNMPCommunity   = "public"
)

// DefaultFallbackPorts are dialed when unprivileged ICMP sockets are not
// available. A refused connection still proves the host is up.
var DefaultFallbackPorts = []int{80, 443, 22}

// SNMPVersion selects the SNMP protocol version used by Describe.
type SNMPVersion string

const (
	SNMPVersion1  SNMPVersion = "v1"
	SNMPVersion2c SNMPVersion = "v2c"
	SNMPVersion3  SNMPVersion = "v3"
)

// SNMPConfig controls the optional sysDescr lookup.
type SNMPConfig struct {
	Enabled         bool            `json:"enabled" yaml:"enabled"`
	Version         SNMPVersion     `json:"version" yaml:"version"`
	Community       string          `json:"community" yaml:"community"`
	Port            uint16          `json:"port" yaml:"port"`
	Timeout         models.Duration `json:"timeout" yaml:"timeout"`
	Retries         int             `json:"retries" yaml:"retries"`
	Username        string          `json:"username,omitempty" yaml:"username,omitempty"`
	AuthProtocol    string          `json:"auth_protocol,omitempty" yaml:"auth_protocol,omitempty"`
	AuthPassword    string          `json:"auth_password,omitempty" yaml:"auth_password,omitempty"`
	PrivacyProtocol string          `json:"privacy_protocol,omitempty" yaml:"privacy_protocol,omitempty"`
	PrivacyPassword string          `json:"privacy_password,omitempty" yaml:"privacy_password,omitempty"`
}

// Config configures the default probe gateway.
type Config struct {
	PingRate        int             `json:"ping_rate" yaml:"ping_rate"`
	PingBurst       int             `json:"ping_burst" yaml:"ping_burst"`
	FallbackPorts   []int           `json:"fallback_ports" yaml:"fallback_ports"`
	PortConcurrency int             `json:"port_concurrency" yaml:"port_concurrency"`
	DNSTimeout      models.Duration `json:"dns_timeout" yaml:"dns_timeout"`
	ARPPath         string          `json:"arp_path" yaml:"arp_path"`
	UseNmap         bool            `json:"use_nmap" yaml:"use_nmap"`
	SNMP            SNMPConfig      `json:"snmp" yaml:"snmp"`
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		PingRate:        defaultPingRate,
		PingBurst:       defaultPingBurst,
		FallbackPorts:   append([]int(nil), DefaultFallbackPorts...),
		PortConcurrency: defaultPortConcurrency,
		DNSTimeout:      models.Duration(defaultDNSTimeout),
		ARPPath:         defaultARPPath,
		SNMP: SNMPConfig{
			Version:   SNMPVersion2c,
			Community: defaultSNMPCommunity,
			Port:      defaultSNMPPort,
			Timeout:   models.Duration(defaultSNMPTimeout),
			Retries:   defaultSNMPRetries,
		},
	}
}

// Validate fills zero values with defaults and rejects negative limits.
func (c *Config) Validate() error {
	def := DefaultConfig()

	if c.PingRate < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPingRate, c.PingRate)
	}

	if c.PortConcurrency < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPortScanLimit, c.PortConcurrency)
	}

	if c.PingRate == 0 {
		c.PingRate = def.PingRate
	}

	if c.PingBurst <= 0 {
		c.PingBurst = def.PingBurst
	}

	if c.FallbackPorts == nil {
		c.FallbackPorts = def.FallbackPorts
	}

	if c.PortConcurrency == 0 {
		c.PortConcurrency = def.PortConcurrency
	}

	c.DNSTimeout = models.Duration(c.DNSTimeout.Or(defaultDNSTimeout))

	if c.ARPPath == "" {
		c.ARPPath = def.ARPPath
	}

	if c.SNMP.Version == "" {
		c.SNMP.Version = def.SNMP.Version
	}

	if c.SNMP.Community == "" {
		c.SNMP.Community = def.SNMP.Community
	}

	if c.SNMP.Port == 0 {
		c.SNMP.Port = def.SNMP.Port
	}

	c.SNMP.Timeout = models.Duration(c.SNMP.Timeout.Or(defaultSNMPTimeout))

	return nil
}
