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
	"net"
	"os"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// SubnetSource names where the scanned subnet came from.
type SubnetSource string

const (
	SubnetFromConfig    SubnetSource = "config"
	SubnetFromInterface SubnetSource = "interface"
	SubnetFromDNS       SubnetSource = "dns"
	SubnetFromUDP       SubnetSource = "udp"
	SubnetFromDefault   SubnetSource = "default"
)

const (
	defaultSubnet      = "192.168.1.0/24"
	widestSubnetPrefix = 24
	udpProbeTarget     = "8.8.8.8:80"
	subnetProbeTimeout = 2 * time.Second
)

// AddressProbe returns candidate local addresses from one source.
type AddressProbe func(ctx context.Context) ([]net.IP, error)

type namedProbe struct {
	source SubnetSource
	probe  AddressProbe
}

// SubnetDetector finds the local /24 from the first private IPv4 address
// reported by an ordered chain of probes.
type SubnetDetector struct {
	probes []namedProbe
}

// NewSubnetDetector uses interfaces, then local hostname DNS, then the
// UDP-connect trick.
func NewSubnetDetector() *SubnetDetector {
	return &SubnetDetector{
		probes: []namedProbe{
			{SubnetFromInterface, interfaceAddresses},
			{SubnetFromDNS, hostnameAddresses},
			{SubnetFromUDP, outboundAddress},
		},
	}
}

// NewSubnetDetectorWithProbes builds a detector from explicit probes, tried in
// the order interface, dns, udp. Nil probes are skipped.
func NewSubnetDetectorWithProbes(iface, dns, udp AddressProbe) *SubnetDetector {
	d := &SubnetDetector{}

	for _, p := range []namedProbe{
		{SubnetFromInterface, iface},
		{SubnetFromDNS, dns},
		{SubnetFromUDP, udp},
	} {
		if p.probe != nil {
			d.probes = append(d.probes, p)
		}
	}

	return d
}

// Detect returns the configured subnet when set, otherwise the /24 around
// the first private address found, falling back to 192.168.1.0/24.
func (d *SubnetDetector) Detect(ctx context.Context, override string) (*net.IPNet, SubnetSource) {
	if override != "" {
		if ipnet, err := ParseSubnet(override); err == nil {
			return ipnet, SubnetFromConfig
		}
	}

	for _, p := range d.probes {
		probeCtx, cancel := context.WithTimeout(ctx, subnetProbeTimeout)
		ips, err := p.probe(probeCtx)
		cancel()

		if err != nil {
			continue
		}

		if ip := firstPrivateIPv4(ips); ip != nil {
			return Slash24(ip), p.source
		}
	}

	_, ipnet, _ := net.ParseCIDR(defaultSubnet)

	return ipnet, SubnetFromDefault
}

// ParseSubnet parses a subnet override. Only IPv4 networks of /24 or
// narrower are accepted so a sweep never exceeds 254 hosts.
func ParseSubnet(cidr string) (*net.IPNet, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSubnet, cidr, err)
	}

	ones, bits := ipnet.Mask.Size()

	if ipnet.IP.To4() == nil || bits != 32 {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSubnet, cidr, ErrSubnetNotIPv4)
	}

	if ones < widestSubnetPrefix {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSubnet, cidr, ErrSubnetTooWide)
	}

	return ipnet, nil
}

// Slash24 returns the /24 network containing ip.
func Slash24(ip net.IP) *net.IPNet {
	mask := net.CIDRMask(24, 32)

	return &net.IPNet{IP: ip.To4().Mask(mask), Mask: mask}
}

// IsRFC1918 reports whether ip is in 10/8, 172.16/12 or 192.168/16.
func IsRFC1918(ip net.IP) bool {
	v4 := ip.To4()

	return v4 != nil && v4.IsPrivate()
}

func firstPrivateIPv4(ips []net.IP) net.IP {
	for _, ip := range ips {
		if IsRFC1918(ip) {
			return ip.To4()
		}
	}

	return nil
}

func interfaceAddresses(ctx context.Context) ([]net.IP, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var ips []net.IP

	for _, iface := range ifaces {
		if hasFlag(iface.Flags, "loopback") || !hasFlag(iface.Flags, "up") {
			continue
		}

		for _, addr := range iface.Addrs {
			ip, _, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				ip = net.ParseIP(addr.Addr)
			}

			if ip != nil {
				ips = append(ips, ip)
			}
		}
	}

	return ips, nil
}

func hostnameAddresses(ctx context.Context) ([]net.IP, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return nil, err
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}

	return ips, nil
}

// outboundAddress asks the kernel which source address it would use for a
// public destination. No packet is sent for a UDP connect.
func outboundAddress(ctx context.Context) ([]net.IP, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "udp4", udpProbeTarget)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, ErrNoPrivateIPv4
	}

	return []net.IP{addr.IP}, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}

	return false
}
