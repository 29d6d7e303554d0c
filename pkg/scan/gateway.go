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
	"context"
	"net"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// Gateway is the default probe gateway: ICMP (or TCP) reachability, the
// platform ARP cache, PTR lookups, connect port scans and SNMP sysDescr.
// Every call is best-effort and reports failure through sentinel values.
type Gateway struct {
	pinger     *Pinger
	arp        *ARPReader
	ports      PortScanner
	snmp       *SNMPDescriber
	resolver   Resolver
	dnsTimeout time.Duration
	logger     logger.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithResolver overrides the PTR resolver.
func WithResolver(r Resolver) Option {
	return func(g *Gateway) { g.resolver = r }
}

// WithPortScanner overrides the port scan backend.
func WithPortScanner(s PortScanner) Option {
	return func(g *Gateway) { g.ports = s }
}

// NewGateway builds a gateway from cfg. cfg is validated in place.
func NewGateway(cfg *Config, log logger.Logger, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		pinger:     NewPinger(cfg.PingRate, cfg.PingBurst, cfg.FallbackPorts, log),
		arp:        NewARPReader(cfg.ARPPath),
		snmp:       NewSNMPDescriber(cfg.SNMP, log),
		resolver:   net.DefaultResolver,
		dnsTimeout: cfg.DNSTimeout.Std(),
		logger:     log,
	}

	switch {
	case cfg.UseNmap && NmapAvailable():
		g.ports = NewNmapScanner(log)
	case cfg.UseNmap:
		log.Warn().Err(ErrNmapUnavailable).Msg("Falling back to TCP connect port scanning")

		fallthrough
	default:
		g.ports = NewTCPSweeper(cfg.PortConcurrency, log)
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Gateway) Ping(ctx context.Context, ip string, timeout time.Duration) models.PingResult {
	return g.pinger.Ping(ctx, ip, timeout)
}

func (g *Gateway) ReadARPTable(ctx context.Context) []models.ARPEntry {
	entries, err := g.arp.ReadARPTable(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Msg("ARP table read failed")
	}

	return entries
}

func (g *Gateway) ReverseDNS(ctx context.Context, ip string, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = g.dnsTimeout
	}

	return ReverseLookup(ctx, g.resolver, ip, timeout)
}

func (g *Gateway) ScanPorts(ctx context.Context, ip string, ports []int, timeout time.Duration) []int {
	return g.ports.ScanPorts(ctx, ip, ports, timeout)
}

// LocalMAC resolves the MAC of ip from the local interfaces first and the ARP
// cache second.
func (g *Gateway) LocalMAC(ctx context.Context, ip string) string {
	if mac := interfaceMAC(ctx, ip); mac != "" {
		return mac
	}

	for _, entry := range g.ReadARPTable(ctx) {
		if entry.IP == ip {
			return entry.MAC
		}
	}

	return models.Unknown
}

func (g *Gateway) Describe(ctx context.Context, ip string) string {
	return g.snmp.Describe(ctx, ip)
}

func interfaceMAC(ctx context.Context, ip string) string {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return ""
	}

	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			host := addr.Addr
			if i := strings.IndexByte(host, '/'); i >= 0 {
				host = host[:i]
			}

			if host == ip {
				return NormalizeMAC(iface.HardwareAddr)
			}
		}
	}

	return ""
}
