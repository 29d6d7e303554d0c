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

package oui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVendorFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "vendors.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_SkipsBlankAndMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"FC253F\tApple, Inc.",
		"",
		"b827eb\tRaspberry Pi Foundation",
		"ZZZZZZ\tNot Hex",
		"12345\tToo Short",
		"1234567\tToo Long",
		"001122 no tab here",
		"AABBCC\t",
		"   ",
	}, "\n")

	table, stats, err := Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"FC253F": "Apple, Inc.",
		"B827EB": "Raspberry Pi Foundation",
	}, table)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 5, stats.Skipped)
}

func TestLoad_OversizedLineDoesNotTruncate(t *testing.T) {
	input := "AABBCC\tFirst\n" + strings.Repeat("Z", 2<<20) + "\nFC253F\tApple, Inc.\n"

	table, stats, err := Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "First", table["AABBCC"])
	assert.Equal(t, "Apple, Inc.", table["FC253F"])
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.Skipped)
}

func TestLoad_OversizedFinalLine(t *testing.T) {
	table, stats, err := Load(strings.NewReader("FC253F\tApple, Inc.\n" + strings.Repeat("A", maxLineLength*2)))
	require.NoError(t, err)

	assert.Len(t, table, 1)
	assert.Equal(t, 1, stats.Skipped)
}

func TestCatalog_ReloadSurvivesOversizedLine(t *testing.T) {
	dir := t.TempDir()
	path := writeVendorFile(t, dir, "AABBCC\tFirst\n")

	catalog := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, catalog.Reload())

	writeVendorFile(t, dir, "AABBCC\tFirst\n"+strings.Repeat("Z", 2<<20)+"\nFC253F\tApple, Inc.\n")
	require.NoError(t, catalog.Reload())

	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, "Apple, Inc.", catalog.Lookup("fc:25:3f:01:02:03"))
}

func TestCatalog_AppleScenario(t *testing.T) {
	path := writeVendorFile(t, t.TempDir(), "FC253F\tApple, Inc.\n")

	c := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, c.Reload())

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Apple, Inc.", c.Lookup("fc:25:3f:01:02:03"))
	assert.Equal(t, models.Unknown, c.Lookup("00:00:00:00:00:00"))
}

func TestCatalog_LookupFallbackChain(t *testing.T) {
	c := NewCatalogFromTable(map[string]string{"a4b1c1": "Table Vendor"}, logger.NewTestLogger())

	tests := []struct {
		name string
		mac  string
		want string
	}{
		{name: "table with dashes", mac: "A4-B1-C1-00-00-01", want: "Table Vendor"},
		{name: "table cisco dotted", mac: "a4b1.c100.0001", want: "Table Vendor"},
		{name: "alias", mac: "00:50:56:aa:bb:cc", want: "VMware, Inc."},
		{name: "alias raspberry", mac: "dc:a6:32:00:11:22", want: "Raspberry Pi Foundation"},
		{name: "locally administered", mac: "06:11:22:33:44:55", want: "Virtual machine (probably)"},
		{name: "ipv4 multicast", mac: "01:00:5E:00:00:FB", want: "IPv4 multicast"},
		{name: "broadcast", mac: "FF:FF:FF:FF:FF:FF", want: "Broadcast"},
		{name: "unknown", mac: "00:00:00:00:00:00", want: models.Unknown},
		{name: "too short", mac: "00:11", want: models.Unknown},
		{name: "garbage", mac: "unknown", want: models.Unknown},
		{name: "empty", mac: "", want: models.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Lookup(tt.mac))
		})
	}
}

func TestCatalog_ReloadSwapsTable(t *testing.T) {
	dir := t.TempDir()
	path := writeVendorFile(t, dir, "111111\tFirst Vendor\n")

	c := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, c.Reload())
	assert.Equal(t, "First Vendor", c.Lookup("11:11:11:00:00:00"))

	writeVendorFile(t, dir, "222222\tSecond Vendor\n")
	require.NoError(t, c.Reload())

	assert.Equal(t, models.Unknown, c.Lookup("11:11:11:00:00:00"))
	assert.Equal(t, "Second Vendor", c.Lookup("22:22:22:00:00:00"))
}

func TestCatalog_MissingFileKeepsPreviousTable(t *testing.T) {
	dir := t.TempDir()
	path := writeVendorFile(t, dir, "111111\tFirst Vendor\n")

	c := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, c.Reload())

	require.NoError(t, os.Remove(path))

	err := c.Reload()
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
	assert.Equal(t, "First Vendor", c.Lookup("11:11:11:00:00:00"))
}

func TestCatalog_ReloadWithoutPath(t *testing.T) {
	c := NewCatalog("", logger.NewTestLogger())

	assert.ErrorIs(t, c.Reload(), ErrCatalogPathNotSet)
	assert.Equal(t, 0, c.Len())
}

func TestCatalog_ConcurrentLookupDuringReload(t *testing.T) {
	dir := t.TempDir()

	var b strings.Builder
	for i := 1; i <= 500; i++ {
		fmt.Fprintf(&b, "%06X\tVendor %d\n", i, i)
	}

	path := writeVendorFile(t, dir, "AABBCC\tStable Vendor\n"+b.String())

	c := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, c.Reload())

	var wg sync.WaitGroup

	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-stop:
					return
				default:
					assert.Equal(t, "Stable Vendor", c.Lookup("AA:BB:CC:00:00:00"))
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Reload())
	}

	close(stop)
	wg.Wait()
}

func TestCatalog_WatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeVendorFile(t, dir, "111111\tFirst Vendor\n")

	c := NewCatalog(path, logger.NewTestLogger())
	require.NoError(t, c.Reload())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- c.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	writeVendorFile(t, dir, "333333\tThird Vendor\n")

	assert.Eventually(t, func() bool {
		return c.Lookup("33:33:33:00:00:00") == "Third Vendor"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "FC253F", NormalizePrefix("fc:25:3f:01:02:03"))
	assert.Equal(t, "FC253F", NormalizePrefix("FC253F010203"))
	assert.Equal(t, "", NormalizePrefix("fc:25"))
	assert.Equal(t, "", NormalizePrefix("gg:25:3f:01:02:03"))
}
