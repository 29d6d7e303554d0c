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

// Package oui resolves MAC address prefixes to hardware vendor names.
package oui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	prefixLength  = 6
	maxLineLength = 64 * 1024
)

// LoadStats summarizes one pass over a vendor file.
type LoadStats struct {
	Entries int
	Skipped int
}

// ParseLine parses one "PREFIX<TAB>Vendor" record.
func ParseLine(line string) (models.VendorEntry, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if line == "" {
		return models.VendorEntry{}, false
	}

	prefix, vendor, ok := strings.Cut(line, "\t")
	if !ok {
		return models.VendorEntry{}, false
	}

	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	vendor = strings.TrimSpace(vendor)

	if !isHexPrefix(prefix) || vendor == "" {
		return models.VendorEntry{}, false
	}

	return models.VendorEntry{MACPrefix: prefix, VendorName: vendor}, true
}

func isHexPrefix(s string) bool {
	if len(s) != prefixLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}

	return true
}

// Load reads vendor records, skipping blank, malformed and oversized lines.
// A read error is returned together with everything parsed before it.
func Load(r io.Reader) (map[string]string, LoadStats, error) {
	table := make(map[string]string)
	stats := LoadStats{}

	reader := bufio.NewReaderSize(r, maxLineLength)

	for {
		line, oversized, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			stats.Entries = len(table)

			return table, stats, fmt.Errorf("failed to read vendor records: %w", err)
		}

		if oversized {
			stats.Skipped++
		} else if entry, ok := ParseLine(line); ok {
			table[entry.MACPrefix] = entry.VendorName
		} else if strings.TrimSpace(line) != "" {
			stats.Skipped++
		}

		if err != nil {
			break
		}
	}

	stats.Entries = len(table)

	return table, stats, nil
}

// readLine returns the next line without its terminator. A line that does not
// fit the reader buffer is consumed and reported as oversized.
func readLine(r *bufio.Reader) (string, bool, error) {
	chunk, isPrefix, err := r.ReadLine()
	if err != nil {
		return "", false, err
	}

	if !isPrefix {
		return string(chunk), false, nil
	}

	for isPrefix {
		_, isPrefix, err = r.ReadLine()
		if err != nil {
			return "", true, err
		}
	}

	return "", true, nil
}

// LoadFile loads a vendor table from disk.
func LoadFile(path string) (map[string]string, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open vendor file '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Catalog is a read-mostly vendor table. Readers never observe a partially
// loaded table: a reload builds a fresh map and swaps the pointer.
type Catalog struct {
	path    string
	table   atomic.Pointer[map[string]string]
	reload  sync.Mutex
	logger  logger.Logger
	aliases []alias
}

// NewCatalog creates an empty catalog bound to path. Call Reload to populate it.
func NewCatalog(path string, log logger.Logger) *Catalog {
	c := &Catalog{
		path:    path,
		logger:  log,
		aliases: defaultAliases,
	}

	empty := make(map[string]string)
	c.table.Store(&empty)

	return c
}

// NewCatalogFromTable wraps an already loaded table.
func NewCatalogFromTable(table map[string]string, log logger.Logger) *Catalog {
	c := NewCatalog("", log)

	copied := make(map[string]string, len(table))
	for k, v := range table {
		copied[strings.ToUpper(k)] = v
	}

	c.table.Store(&copied)

	return c
}

// Path returns the backing file path.
func (c *Catalog) Path() string {
	return c.path
}

// Len returns the number of loaded prefixes.
func (c *Catalog) Len() int {
	return len(*c.table.Load())
}

// Reload re-reads the backing file and swaps the table in one step. When the
// file cannot be read the previous table stays in place.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return ErrCatalogPathNotSet
	}

	c.reload.Lock()
	defer c.reload.Unlock()

	table, stats, err := LoadFile(c.path)
	if err != nil && table == nil {
		c.logger.Warn().Err(err).Str("path", c.path).
			Msg("Vendor catalog unavailable, keeping previous table")

		return err
	}

	if err != nil {
		c.logger.Warn().Err(err).Str("path", c.path).Int("entries", stats.Entries).
			Msg("Vendor catalog partially loaded")
	}

	c.table.Store(&table)

	c.logger.Info().
		Str("path", c.path).
		Int("entries", stats.Entries).
		Int("skipped", stats.Skipped).
		Msg("Vendor catalog loaded")

	return err
}

// Lookup resolves a MAC address to a vendor name, or models.Unknown.
func (c *Catalog) Lookup(mac string) string {
	prefix := NormalizePrefix(mac)
	if prefix == "" {
		return models.Unknown
	}

	table := *c.table.Load()
	if vendor, ok := table[prefix]; ok {
		return vendor
	}

	for _, a := range c.aliases {
		if a.matches(prefix) {
			return a.vendor
		}
	}

	if vendor, ok := heuristicVendor(prefix); ok {
		return vendor
	}

	return models.Unknown
}

// NormalizePrefix strips separators, uppercases and returns the first six hex
// characters of a MAC address, or "" when there are not enough of them.
func NormalizePrefix(mac string) string {
	var b strings.Builder

	for _, r := range mac {
		switch r {
		case ':', '-', '.', ' ':
			continue
		}

		b.WriteRune(r)
	}

	s := strings.ToUpper(b.String())
	if len(s) < prefixLength {
		return ""
	}

	s = s[:prefixLength]
	if !isHexPrefix(s) {
		return ""
	}

	return s
}

// IsNotExist reports whether err came from a missing vendor file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
