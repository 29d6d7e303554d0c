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

package main

import (
	"errors"
	"fmt"

	"github.com/carverauto/hostsentry/pkg/consumers/logins"
	"github.com/carverauto/hostsentry/pkg/correlator"
	"github.com/carverauto/hostsentry/pkg/discovery"
	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/natsutil"
	"github.com/carverauto/hostsentry/pkg/scan"
)

const defaultMetricsAddr = ":9469"

var (
	errLoginsNeedNATS     = errors.New("login consumer requires nats.enabled")
	errMetricsAddrMissing = errors.New("metrics.listen_addr is required when metrics are enabled")
	errSectionMissing     = errors.New("configuration section missing")
)

// VendorsConfig locates the MAC prefix vendor file.
type VendorsConfig struct {
	Path  string `json:"path" yaml:"path"`
	Watch bool   `json:"watch" yaml:"watch"`
}

// GeoIPConfig locates an optional MaxMind country database.
type GeoIPConfig struct {
	Path string `json:"path" yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// Config is the hostsentry service configuration. Sections tagged
// reload:"hot" are applied when the config file changes; the rest need a
// restart.
type Config struct {
	Logging    *logger.Config     `json:"logging" yaml:"logging" reload:"hot"`
	Correlator *correlator.Config `json:"correlator" yaml:"correlator" reload:"hot"`
	Discovery  *discovery.Config  `json:"discovery" yaml:"discovery" reload:"restart"`
	Scan       scan.Config        `json:"scan" yaml:"scan" reload:"restart"`
	Vendors    VendorsConfig      `json:"vendors" yaml:"vendors" reload:"restart"`
	NATS       *natsutil.Config   `json:"nats" yaml:"nats" reload:"restart"`
	Logins     *logins.Config     `json:"logins" yaml:"logins" reload:"restart"`
	GeoIP      GeoIPConfig        `json:"geoip" yaml:"geoip" reload:"restart"`
	Metrics    MetricsConfig      `json:"metrics" yaml:"metrics" reload:"restart"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging:    logger.DefaultConfig(),
		Correlator: correlator.DefaultConfig(),
		Discovery:  discovery.DefaultConfig(),
		Scan:       scan.DefaultConfig(),
		Vendors:    VendorsConfig{Path: "/etc/hostsentry/mac-vendors.txt", Watch: true},
		NATS:       natsutil.DefaultConfig(),
		Logins:     logins.DefaultConfig(),
		Metrics:    MetricsConfig{ListenAddr: defaultMetricsAddr},
	}
}

// Validate checks every section and fills defaults in place.
func (c *Config) Validate() error {
	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	if c.Correlator == nil || c.Discovery == nil || c.NATS == nil || c.Logins == nil {
		return fmt.Errorf("%w: correlator, discovery, nats and logins must be set", errSectionMissing)
	}

	if _, err := logger.ParseLevel(c.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if err := c.Correlator.Validate(); err != nil {
		return fmt.Errorf("correlator: %w", err)
	}

	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	if err := c.Scan.Validate(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if c.NATS.Enabled {
		if err := c.NATS.Validate(); err != nil {
			return fmt.Errorf("nats: %w", err)
		}
	}

	if c.Logins.Enabled {
		if !c.NATS.Enabled {
			return errLoginsNeedNATS
		}

		if c.Logins.Stream == "" {
			c.Logins.Stream = c.NATS.Stream
		}

		if c.Logins.Subject == "" {
			c.Logins.Subject = c.NATS.LoginSubject
		}

		if err := c.Logins.Validate(); err != nil {
			return fmt.Errorf("logins: %w", err)
		}
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return errMetricsAddrMissing
	}

	return nil
}
