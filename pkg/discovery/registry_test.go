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
	"sync"
	"testing"
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MACIsSticky(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, inserted := r.Merge(&models.NetworkDevice{
		IPAddress:  "192.168.1.10",
		MACAddress: "AA:BB:CC:DD:EE:FF",
		Status:     models.StatusActive,
	}, now)
	require.True(t, inserted)

	d, inserted := r.Merge(&models.NetworkDevice{
		IPAddress:  "192.168.1.10",
		MACAddress: "unknown",
		Status:     models.StatusActive,
	}, now.Add(time.Minute))

	assert.False(t, inserted)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", d.MACAddress)
}

func TestRegistry_MergeIsIdempotentForNewness(t *testing.T) {
	r := NewRegistry()
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	candidate := &models.NetworkDevice{
		IPAddress:  "192.168.1.20",
		MACAddress: "B8:27:EB:00:00:01",
		Hostname:   "raspberrypi",
		Vendor:     "Raspberry Pi Foundation",
		Status:     models.StatusActive,
	}

	d1, inserted1 := r.Merge(candidate, first)
	d2, inserted2 := r.Merge(candidate, first.Add(time.Minute))

	assert.True(t, inserted1)
	assert.True(t, d1.IsNew)
	assert.False(t, inserted2)
	assert.False(t, d2.IsNew)
	assert.Equal(t, first, d2.FirstSeen)
	assert.Equal(t, first.Add(time.Minute), d2.LastSeen)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_MergePolicy(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.2", Status: models.StatusActive}, now)

	d, _ := r.Merge(&models.NetworkDevice{
		IPAddress:  "10.0.0.2",
		MACAddress: "00:50:56:01:02:03",
		Vendor:     "VMware, Inc.",
		Hostname:   "build-01",
		OpenPorts:  []int{22, 22, 443},
		Status:     models.StatusActive,
	}, now)

	assert.Equal(t, "00:50:56:01:02:03", d.MACAddress)
	assert.Equal(t, "VMware, Inc.", d.Vendor)
	assert.Equal(t, "build-01", d.Hostname)
	assert.Equal(t, []int{22, 443}, d.OpenPorts)

	d, _ = r.Merge(&models.NetworkDevice{
		IPAddress:  "10.0.0.2",
		MACAddress: "11:22:33:44:55:66",
		Vendor:     "Other",
		Hostname:   models.Unknown,
		Status:     models.StatusUnreachable,
	}, now)

	assert.Equal(t, "00:50:56:01:02:03", d.MACAddress, "known MAC is not replaced")
	assert.Equal(t, "VMware, Inc.", d.Vendor, "known vendor is not replaced")
	assert.Equal(t, "build-01", d.Hostname, "placeholder hostname is ignored")
	assert.Equal(t, models.StatusUnreachable, d.Status, "status is always updated")

	d, _ = r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.2", Hostname: "build-02"}, now)
	assert.Equal(t, "build-02", d.Hostname)
}

func TestRegistry_SetStatusOnlyOnTransition(t *testing.T) {
	r := NewRegistry()
	r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.3", Status: models.StatusActive}, time.Now())

	_, changed := r.SetStatus("10.0.0.3", models.StatusActive, time.Millisecond, time.Now())
	assert.False(t, changed)

	d, changed := r.SetStatus("10.0.0.3", models.StatusUnreachable, 0, time.Now())
	require.True(t, changed)
	assert.Equal(t, models.StatusUnreachable, d.Status)

	_, changed = r.SetStatus("10.0.0.99", models.StatusActive, 0, time.Now())
	assert.False(t, changed)
}

func TestRegistry_RevisionAndRemoval(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, uint64(0), r.Revision())

	r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.4"}, time.Now())
	rev := r.Revision()
	assert.Positive(t, rev)

	require.True(t, r.Remove("10.0.0.4"))
	assert.Greater(t, r.Revision(), rev)
	assert.False(t, r.Remove("10.0.0.4"))

	_, inserted := r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.4"}, time.Now())
	assert.True(t, inserted, "removed device is announced again")

	assert.Equal(t, 1, r.Clear())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CommitsCarryRevision(t *testing.T) {
	r := NewRegistry()

	inserted, _ := r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.8", Status: models.StatusActive}, time.Now())
	assert.Equal(t, r.Revision(), inserted.Revision)

	changed, ok := r.SetStatus("10.0.0.8", models.StatusUnreachable, 0, time.Now())
	require.True(t, ok)
	assert.Greater(t, changed.Revision, inserted.Revision)

	stored, _ := r.Get("10.0.0.8")
	assert.Equal(t, changed.Revision, stored.Revision)
}

func TestRegistry_LatestRevisionMatchesStoredState(t *testing.T) {
	r := NewRegistry()
	r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.9", Status: models.StatusActive}, time.Now())

	var (
		mu        sync.Mutex
		delivered []*models.NetworkDevice
		wg        sync.WaitGroup
	)

	deliver := func(d *models.NetworkDevice) {
		mu.Lock()
		delivered = append(delivered, d)
		mu.Unlock()
	}

	for i := 0; i < 50; i++ {
		wg.Add(2)

		status := models.StatusActive
		if i%2 == 0 {
			status = models.StatusUnreachable
		}

		go func() {
			defer wg.Done()

			if d, ok := r.SetStatus("10.0.0.9", status, 0, time.Now()); ok {
				deliver(d)
			}
		}()

		go func() {
			defer wg.Done()

			d, _ := r.Merge(&models.NetworkDevice{IPAddress: "10.0.0.9", Status: status}, time.Now())
			deliver(d)
		}()
	}

	wg.Wait()

	latest := delivered[0]
	seen := map[uint64]bool{}

	for _, d := range delivered {
		assert.False(t, seen[d.Revision], "revision %d delivered twice", d.Revision)
		seen[d.Revision] = true

		if d.Revision > latest.Revision {
			latest = d
		}
	}

	stored, _ := r.Get("10.0.0.9")
	assert.Equal(t, stored.Status, latest.Status)
	assert.Equal(t, stored.Revision, latest.Revision)
}

func TestRegistry_SnapshotIsOrderedCopy(t *testing.T) {
	r := NewRegistry()

	for _, last := range []int{10, 9, 100, 1} {
		r.Merge(&models.NetworkDevice{IPAddress: fmt.Sprintf("192.168.1.%d", last), OpenPorts: []int{80}}, time.Now())
	}

	snap := r.Snapshot()
	require.Len(t, snap, 4)

	ips := make([]string, 0, len(snap))
	for _, d := range snap {
		ips = append(ips, d.IPAddress)
	}

	assert.Equal(t, []string{"192.168.1.1", "192.168.1.9", "192.168.1.10", "192.168.1.100"}, ips)

	snap[0].OpenPorts[0] = 9999
	snap[0].Hostname = "mutated"

	again, _ := r.Get("192.168.1.1")
	assert.Equal(t, []int{80}, again.OpenPorts)
	assert.Equal(t, models.Unknown, again.Hostname)
}

func TestRegistry_ClassifiesOnInsert(t *testing.T) {
	r := NewRegistry()

	d, _ := r.Merge(&models.NetworkDevice{
		IPAddress: "10.0.0.8",
		Vendor:    models.Unknown,
		OpenPorts: []int{80, 443, 22},
	}, time.Now())

	assert.Equal(t, 24, d.RiskScore)
	assert.Equal(t, models.RiskHigh, d.RiskLevel)
}
