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
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/carverauto/hostsentry/pkg/models"
)

const procARPFlagsComplete = 0x2

var (
	// ? (192.168.1.1) at aa:bb:cc:dd:ee:ff [ether] on eth0
	unixARPLine = regexp.MustCompile(`\(([0-9.]+)\)\s+at\s+([0-9A-Fa-f:.-]+)(?:\s+\[\w+\])?(?:\s+on\s+(\S+))?`)
	// 192.168.1.1          aa-bb-cc-dd-ee-ff     dynamic
	windowsARPLine = regexp.MustCompile(`^\s*([0-9.]+)\s+([0-9A-Fa-f]{2}(?:-[0-9A-Fa-f]{2}){5})\s+\w+`)
)

// ARPReader reads the platform ARP cache.
type ARPReader struct {
	path    string
	command string
}

// NewARPReader prefers the procfs table at path and falls back to `arp -a`.
func NewARPReader(path string) *ARPReader {
	if path == "" {
		path = defaultARPPath
	}

	return &ARPReader{path: path, command: "arp"}
}

// ReadARPTable returns every complete (IP, MAC) row. Failures yield an empty
// slice together with the cause.
func (r *ARPReader) ReadARPTable(ctx context.Context) ([]models.ARPEntry, error) {
	f, err := os.Open(r.path)
	if err == nil {
		defer func() { _ = f.Close() }()

		return ParseProcARP(f)
	}

	out, cmdErr := exec.CommandContext(ctx, r.command, "-a").Output()
	if cmdErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrARPTableUnavailable, cmdErr)
	}

	return ParseARPCommand(string(out)), nil
}

// ParseProcARP parses the Linux /proc/net/arp format.
func ParseProcARP(r io.Reader) ([]models.ARPEntry, error) {
	var entries []models.ARPEntry

	scanner := bufio.NewScanner(r)
	header := true

	for scanner.Scan() {
		if header {
			header = false
			continue
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		var flags int
		if _, err := fmt.Sscanf(fields[2], "0x%x", &flags); err != nil || flags&procARPFlagsComplete == 0 {
			continue
		}

		entry, ok := newARPEntry(fields[0], fields[3], fields[5])
		if ok {
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read ARP table: %w", err)
	}

	return entries, nil
}

// ParseARPCommand parses `arp -a` output from Linux, BSD/macOS and Windows.
func ParseARPCommand(output string) []models.ARPEntry {
	var entries []models.ARPEntry

	for _, line := range strings.Split(output, "\n") {
		if m := unixARPLine.FindStringSubmatch(line); m != nil {
			if entry, ok := newARPEntry(m[1], m[2], m[3]); ok {
				entries = append(entries, entry)
			}

			continue
		}

		if m := windowsARPLine.FindStringSubmatch(line); m != nil {
			if entry, ok := newARPEntry(m[1], m[2], ""); ok {
				entries = append(entries, entry)
			}
		}
	}

	return entries
}

func newARPEntry(ip, mac, iface string) (models.ARPEntry, bool) {
	parsed := net.ParseIP(ip).To4()
	if parsed == nil {
		return models.ARPEntry{}, false
	}

	normalized := NormalizeMAC(mac)
	if normalized == "" || normalized == "00:00:00:00:00:00" || normalized == "FF:FF:FF:FF:FF:FF" {
		return models.ARPEntry{}, false
	}

	return models.ARPEntry{IP: parsed.String(), MAC: normalized, Interface: iface}, true
}

// NormalizeMAC renders a MAC as upper-case colon-separated octets. BSD style
// single-digit octets ("0:1b:2c:...") are zero padded. Invalid input yields "".
func NormalizeMAC(mac string) string {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return ""
	}

	sep := ":"
	if strings.Contains(mac, "-") {
		sep = "-"
	}

	parts := strings.Split(mac, sep)
	if len(parts) == 6 {
		for i, part := range parts {
			if len(part) == 1 {
				parts[i] = "0" + part
			}
		}

		mac = strings.Join(parts, ":")
	}

	hw, err := net.ParseMAC(mac)
	if err != nil || len(hw) != 6 {
		return ""
	}

	return strings.ToUpper(hw.String())
}
