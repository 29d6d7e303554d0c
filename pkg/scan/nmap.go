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
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Ullaakut/nmap/v3"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// NmapScanner runs an nmap connect scan (-sT -Pn) against a single host.
type NmapScanner struct {
	logger logger.Logger
}

var _ PortScanner = (*NmapScanner)(nil)

func NewNmapScanner(log logger.Logger) *NmapScanner {
	return &NmapScanner{logger: log}
}

// NmapAvailable reports whether an nmap binary is on PATH.
func NmapAvailable() bool {
	_, err := exec.LookPath("nmap")

	return err == nil
}

func (n *NmapScanner) ScanPorts(ctx context.Context, ip string, ports []int, timeout time.Duration) []int {
	ports = models.NormalizePorts(ports)
	if len(ports) == 0 {
		return nil
	}

	// the per-port timeout bounds the whole run loosely; nmap parallelizes
	scanCtx, cancel := context.WithTimeout(ctx, timeout*time.Duration(len(ports))+5*time.Second)
	defer cancel()

	scanner, err := nmap.NewScanner(
		scanCtx,
		nmap.WithTargets(ip),
		nmap.WithPorts(joinPorts(ports)),
		nmap.WithConnectScan(),
		nmap.WithSkipHostDiscovery(),
	)
	if err != nil {
		n.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to create nmap scanner")

		return nil
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		n.logger.Warn().Err(err).Str("ip", ip).Msg("nmap scan failed")

		return nil
	}

	if warnings != nil && len(*warnings) > 0 {
		n.logger.Debug().Strs("warnings", *warnings).Str("ip", ip).Msg("nmap reported warnings")
	}

	return openPortsFromRun(result)
}

func openPortsFromRun(result *nmap.Run) []int {
	if result == nil {
		return nil
	}

	var open []int

	for _, host := range result.Hosts {
		for _, port := range host.Ports {
			if port.State.State == "open" {
				open = append(open, int(port.ID))
			}
		}
	}

	return models.NormalizePorts(open)
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}

	return strings.Join(parts, ",")
}
