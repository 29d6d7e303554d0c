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

package correlator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeNotifier struct {
	mu          sync.Mutex
	failed      []models.LoginEvent
	escalations []escalation
	messages    []string
}

type escalation struct {
	key   string
	count int
}

func (f *fakeNotifier) OnFailedLogin(event models.LoginEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failed = append(f.failed, event)
}

func (f *fakeNotifier) OnSuspiciousActivity(key string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.escalations = append(f.escalations, escalation{key: key, count: count})
}

func (f *fakeNotifier) OnLogMessage(text string, _ models.LogLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, text)
}

func newTestCorrelator(t *testing.T, maxFailed int, window time.Duration, n Notifier) *Correlator {
	t.Helper()

	c, err := New(&Config{
		MaxFailedAttempts: maxFailed,
		TimeWindow:        models.Duration(window),
	}, n, logger.NewTestLogger())
	require.NoError(t, err)

	return c
}

func failed(ip, user string, ts time.Time) models.LoginEvent {
	return models.LoginEvent{Timestamp: ts, Username: user, SourceIP: ip, Computer: "WS01", Kind: models.FailedLogin}
}

func TestRecordEvent_EscalatesAtThresholdThenSuccessResets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifier := NewMockNotifier(ctrl)
	c := newTestCorrelator(t, 3, 15*time.Minute, mockNotifier)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mockNotifier.EXPECT().OnFailedLogin(gomock.Any()).Times(3)
	mockNotifier.EXPECT().OnSuspiciousActivity("10.0.0.5_admin", 3).Times(1)
	mockNotifier.EXPECT().OnLogMessage(gomock.Any(), models.LogLevelInfo).Times(1)

	var last *models.LoginNotification
	for i := 0; i < 3; i++ {
		last = c.RecordEvent(failed("10.0.0.5", "admin", base.Add(time.Duration(i)*20*time.Second)))
		require.NotNil(t, last)
	}

	assert.True(t, last.Escalated)
	assert.Equal(t, 3, last.Count)
	assert.Equal(t, 3, c.Snapshot()["10.0.0.5_admin"])

	success := c.RecordEvent(models.LoginEvent{
		Timestamp: base.Add(time.Minute),
		Username:  "admin",
		SourceIP:  "10.0.0.5",
		Kind:      models.SuccessfulLogin,
	})
	require.NotNil(t, success)
	assert.False(t, success.Escalated)

	_, exists := c.Snapshot()["10.0.0.5_admin"]
	assert.False(t, exists)
}

func TestRecordEvent_ReAlertsOnEveryEventPastThreshold(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 3, time.Hour, n)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.RecordEvent(failed("192.168.1.20", "bob", now))
	}

	assert.Len(t, n.failed, 5)
	assert.Equal(t, []escalation{
		{key: "192.168.1.20_bob", count: 3},
		{key: "192.168.1.20_bob", count: 4},
		{key: "192.168.1.20_bob", count: 5},
	}, n.escalations)
}

func TestRecordEvent_LoweredThresholdAppliesToNextEvent(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 10, time.Hour, n)
	now := time.Now()

	for i := 0; i < 4; i++ {
		c.RecordEvent(failed("10.1.1.1", "svc", now))
	}

	require.Empty(t, n.escalations)

	require.NoError(t, c.SetMaxFailedAttempts(2))
	assert.Empty(t, n.escalations, "no retroactive escalation")

	note := c.RecordEvent(failed("10.1.1.1", "svc", now))
	require.NotNil(t, note)
	assert.True(t, note.Escalated)
	assert.Equal(t, []escalation{{key: "10.1.1.1_svc", count: 5}}, n.escalations)
}

func TestRecordEvent_MissingFieldsShareUnknownBucket(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 5, time.Hour, n)

	c.RecordEvent(models.LoginEvent{Kind: models.FailedLogin})
	c.RecordEvent(models.LoginEvent{SourceIP: "-", Username: "", Kind: models.FailedLogin})

	assert.Equal(t, map[string]int{"Unknown_Unknown": 2}, c.Snapshot())
	require.Len(t, n.failed, 2)
	assert.Equal(t, models.Unknown, n.failed[0].SourceIP)
	assert.False(t, n.failed[0].Timestamp.IsZero())
}

func TestRecordEvent_LogoffDoesNotTouchCounters(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 5, time.Hour, n)
	now := time.Now()

	c.RecordEvent(failed("10.0.0.9", "eve", now))
	c.RecordEvent(models.LoginEvent{SourceIP: "10.0.0.9", Username: "eve", Kind: models.LogoffInitiated, Timestamp: now})
	c.RecordEvent(models.LoginEvent{SourceIP: "10.0.0.9", Username: "eve", Kind: models.SessionEnded, Timestamp: now})

	assert.Equal(t, map[string]int{"10.0.0.9_eve": 1}, c.Snapshot())
	assert.Len(t, n.messages, 2)
}

func TestRecordEvent_UnknownKindIgnored(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 5, time.Hour, n)

	assert.Nil(t, c.RecordEvent(models.LoginEvent{SourceIP: "10.0.0.1", Username: "x", Kind: models.LoginKind(42)}))
	assert.Empty(t, c.Snapshot())
	assert.Empty(t, n.messages)
}

func TestSweep_BoundaryIsInclusive(t *testing.T) {
	n := &fakeNotifier{}
	window := 15 * time.Minute
	c := newTestCorrelator(t, 5, window, n)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordEvent(failed("10.0.0.1", "old", now.Add(-window-time.Nanosecond)))
	c.RecordEvent(failed("10.0.0.2", "edge", now.Add(-window)))
	c.RecordEvent(failed("10.0.0.3", "fresh", now.Add(-time.Minute)))

	removed := c.Sweep(now)

	assert.Equal(t, 1, removed)
	assert.Equal(t, map[string]int{"10.0.0.2_edge": 1, "10.0.0.3_fresh": 1}, c.Snapshot())
}

func TestSweep_ExpiryRestartsCount(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 3, time.Minute, n)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordEvent(failed("10.0.0.7", "amy", start))
	c.RecordEvent(failed("10.0.0.7", "amy", start))
	c.Sweep(start.Add(2 * time.Minute))

	c.RecordEvent(failed("10.0.0.7", "amy", start.Add(2*time.Minute)))

	assert.Equal(t, 1, c.Snapshot()["10.0.0.7_amy"])
	assert.Empty(t, n.escalations)
}

func TestRecordEvent_LateEventDoesNotRewindLastSeen(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 5, time.Minute, n)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordEvent(failed("10.0.0.8", "bob", now))
	c.RecordEvent(failed("10.0.0.8", "bob", now.Add(-10*time.Minute)))

	assert.Zero(t, c.Sweep(now.Add(30*time.Second)), "counter stays alive until the newest event expires")
	assert.Equal(t, 2, c.Snapshot()["10.0.0.8_bob"])

	assert.Equal(t, 1, c.Sweep(now.Add(2*time.Minute)))
}

func TestSetTimeWindowAppliesToNextSweep(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestCorrelator(t, 5, time.Hour, n)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordEvent(failed("10.0.0.4", "kim", now.Add(-10*time.Minute)))
	assert.Zero(t, c.Sweep(now))

	require.NoError(t, c.SetTimeWindow(5*time.Minute))
	assert.Equal(t, 1, c.Sweep(now))

	assert.ErrorIs(t, c.SetTimeWindow(0), ErrInvalidTimeWindow)
	assert.ErrorIs(t, c.SetMaxFailedAttempts(0), ErrInvalidMaxAttempts)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newTestCorrelator(t, 5, time.Hour, &fakeNotifier{})
	c.RecordEvent(failed("10.0.0.1", "a", time.Now()))

	snap := c.Snapshot()
	snap["10.0.0.1_a"] = 99
	delete(snap, "10.0.0.1_a")

	assert.Equal(t, 1, c.Snapshot()["10.0.0.1_a"])
}

func TestRecordEvent_ConcurrentFailuresAreCounted(t *testing.T) {
	c := newTestCorrelator(t, 1000, time.Hour, &fakeNotifier{})
	now := time.Now()

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 25; j++ {
				c.RecordEvent(failed("10.9.9.9", "root", now))
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 500, c.Snapshot()["10.9.9.9_root"])
}

func TestStartSweepsPeriodically(t *testing.T) {
	n := &fakeNotifier{}

	var (
		clockMu sync.Mutex
		current = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	)

	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()

		return current
	}

	c, err := New(&Config{
		MaxFailedAttempts: 5,
		TimeWindow:        models.Duration(time.Minute),
		SweepInterval:     models.Duration(10 * time.Millisecond),
	}, n, logger.NewTestLogger(), WithClock(clock))
	require.NoError(t, err)

	c.RecordEvent(failed("10.0.0.1", "a", current))

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.ErrorIs(t, c.Start(ctx), ErrCorrelatorAlreadyStart)

	clockMu.Lock()
	current = current.Add(2 * time.Minute)
	clockMu.Unlock()

	assert.Eventually(t, func() bool {
		return len(c.Snapshot()) == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, c.Stop(ctx))
	require.NoError(t, c.Stop(ctx))
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil, &fakeNotifier{}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrConfigNil)

	_, err = New(DefaultConfig(), nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrNotifierRequired)

	_, err = New(&Config{MaxFailedAttempts: -1}, &fakeNotifier{}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = New(&Config{SweepInterval: models.Duration(5 * time.Second)}, &fakeNotifier{}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrInvalidSweepInterval)

	cfg := &Config{}
	c, err := New(cfg, &fakeNotifier{}, logger.NewTestLogger())
	require.NoError(t, err)

	maxFailed, window := c.Settings()
	assert.Equal(t, 5, maxFailed)
	assert.Equal(t, 15*time.Minute, window)
}
