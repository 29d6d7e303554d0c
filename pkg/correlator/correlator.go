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

// Package correlator turns remote-desktop authentication events into
// brute-force escalations using a per source/user sliding window.
package correlator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// Correlator owns the attempt counters. All counter access happens under mu.
type Correlator struct {
	mu            sync.Mutex
	attempts      map[string]*models.AttemptCounter
	maxFailed     int
	window        time.Duration
	sweepInterval time.Duration

	notifier Notifier
	metrics  MetricsRecorder
	logger   logger.Logger
	now      func() time.Time

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option customizes a Correlator.
type Option func(*Correlator)

// WithMetrics attaches an instrumentation hook.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Correlator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock overrides the clock used for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Correlator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a correlator. The config is validated (and defaulted) in place.
func New(config *Config, notifier Notifier, log logger.Logger, opts ...Option) (*Correlator, error) {
	if config == nil {
		return nil, ErrConfigNil
	}

	if notifier == nil {
		return nil, ErrNotifierRequired
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid correlator configuration: %w", err)
	}

	c := &Correlator{
		attempts:      make(map[string]*models.AttemptCounter),
		maxFailed:     config.MaxFailedAttempts,
		window:        config.TimeWindow.Std(),
		sweepInterval: config.SweepInterval.Std(),
		notifier:      notifier,
		metrics:       nopMetrics{},
		logger:        log,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// RecordEvent applies one login event and returns the notification that was
// emitted for it, or nil if the event kind is not recognized.
func (c *Correlator) RecordEvent(event models.LoginEvent) *models.LoginNotification {
	event, substituted := event.Normalized()
	if substituted {
		c.logger.Warn().
			Str("source_ip", event.SourceIP).
			Str("username", event.Username).
			Str("kind", event.Kind.String()).
			Msg("Login event missing source or username, counting under placeholder")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}

	switch event.Kind {
	case models.FailedLogin:
		return c.recordFailure(event)
	case models.SuccessfulLogin:
		return c.recordSuccess(event)
	case models.LogoffInitiated, models.SessionEnded:
		c.metrics.ObserveLoginEvent(event.Kind.String(), false)
		c.notifier.OnLogMessage(
			fmt.Sprintf("%s: %s from %s on %s", event.Kind, event.Username, event.SourceIP, event.Computer),
			models.LogLevelInfo)

		return &models.LoginNotification{Event: event, Key: event.Key()}
	default:
		c.logger.Warn().Int("kind", int(event.Kind)).Msg("Ignoring login event with unknown kind")

		return nil
	}
}

func (c *Correlator) recordFailure(event models.LoginEvent) *models.LoginNotification {
	key := event.Key()

	c.mu.Lock()

	counter, ok := c.attempts[key]
	if !ok {
		counter = &models.AttemptCounter{}
		c.attempts[key] = counter
	}

	counter.Count++
	if event.Timestamp.After(counter.LastSeen) {
		counter.LastSeen = event.Timestamp
	}

	count := counter.Count
	escalated := count >= c.maxFailed
	active := len(c.attempts)

	c.mu.Unlock()

	c.metrics.ObserveLoginEvent(event.Kind.String(), escalated)
	c.metrics.SetActiveAttemptCounters(active)

	c.notifier.OnFailedLogin(event)

	if escalated {
		c.logger.Warn().
			Str("key", key).
			Int("count", count).
			Msg("Failed login threshold reached")

		c.notifier.OnSuspiciousActivity(key, count)
	}

	return &models.LoginNotification{Event: event, Key: key, Count: count, Escalated: escalated}
}

func (c *Correlator) recordSuccess(event models.LoginEvent) *models.LoginNotification {
	key := event.Key()

	c.mu.Lock()

	previous := 0
	if counter, ok := c.attempts[key]; ok {
		previous = counter.Count
		delete(c.attempts, key)
	}

	active := len(c.attempts)

	c.mu.Unlock()

	c.metrics.ObserveLoginEvent(event.Kind.String(), false)
	c.metrics.SetActiveAttemptCounters(active)

	if previous > 0 {
		c.logger.Debug().
			Str("key", key).
			Int("forgiven", previous).
			Msg("Successful login cleared failed attempts")
	}

	c.notifier.OnLogMessage(
		fmt.Sprintf("Successful login: %s from %s on %s", event.Username, event.SourceIP, event.Computer),
		models.LogLevelInfo)

	return &models.LoginNotification{Event: event, Key: key}
}

// Sweep removes every counter whose last failure is older than now minus the
// time window. A counter exactly on the boundary is kept.
func (c *Correlator) Sweep(now time.Time) int {
	c.mu.Lock()

	cutoff := now.Add(-c.window)
	removed := 0

	for key, counter := range c.attempts {
		if counter.LastSeen.Before(cutoff) {
			delete(c.attempts, key)

			removed++
		}
	}

	active := len(c.attempts)

	c.mu.Unlock()

	if removed > 0 {
		c.metrics.SetActiveAttemptCounters(active)
		c.logger.Debug().
			Int("removed", removed).
			Int("remaining", active).
			Msg("Swept stale login attempt counters")
	}

	return removed
}

// Snapshot returns a copy of the current counts keyed by source/user.
func (c *Correlator) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.attempts))
	for key, counter := range c.attempts {
		out[key] = counter.Count
	}

	return out
}

// SetMaxFailedAttempts changes the escalation threshold for subsequent events.
func (c *Correlator) SetMaxFailedAttempts(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, n)
	}

	c.mu.Lock()
	c.maxFailed = n
	c.mu.Unlock()

	return nil
}

// SetTimeWindow changes the window used by subsequent sweeps.
func (c *Correlator) SetTimeWindow(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeWindow, d)
	}

	c.mu.Lock()
	c.window = d
	c.mu.Unlock()

	return nil
}

// Settings returns the current threshold and window.
func (c *Correlator) Settings() (maxFailed int, window time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.maxFailed, c.window
}

// Run sweeps stale counters every sweep interval until ctx is done.
func (c *Correlator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(c.now())
		}
	}
}

// Start launches the sweep loop in the background.
func (c *Correlator) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.cancel != nil {
		return ErrCorrelatorAlreadyStart
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		c.Run(runCtx)
	}()

	maxFailed, window := c.Settings()

	c.logger.Info().
		Int("max_failed_attempts", maxFailed).
		Dur("time_window", window).
		Msg("Login correlator started")

	return nil
}

// Stop halts the sweep loop and waits for it to exit.
func (c *Correlator) Stop(ctx context.Context) error {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.runMu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
