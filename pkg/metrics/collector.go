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

// Package metrics exposes Prometheus instrumentation for the correlator and
// the discovery engine, and serves it over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "hostsentry"

// Collector records correlator and discovery activity on a private registry.
// It satisfies both correlator.MetricsRecorder and discovery.MetricsRecorder.
type Collector struct {
	registry *prometheus.Registry

	loginEvents     *prometheus.CounterVec
	escalations     prometheus.Counter
	activeCounters  prometheus.Gauge
	phaseDuration   *prometheus.HistogramVec
	phaseFailures   *prometheus.CounterVec
	devicesDetected prometheus.Counter
	devicesKnown    prometheus.Gauge
}

// NewCollector builds the collector and registers the Go runtime and process
// collectors alongside it.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		loginEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "events_total",
			Help:      "Login events processed by kind",
		}, []string{"kind"}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "escalations_total",
			Help:      "Suspicious activity notifications emitted",
		}),
		activeCounters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "attempt_counters",
			Help:      "Source/user pairs with outstanding failed attempts",
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "phase_duration_seconds",
			Help:      "Duration of discovery scan phases",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 180},
		}, []string{"phase"}),
		phaseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "phase_failures_total",
			Help:      "Discovery scan phases that failed or panicked",
		}, []string{"phase"}),
		devicesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "devices_detected_total",
			Help:      "Devices announced as new",
		}),
		devicesKnown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "devices_known",
			Help:      "Devices currently in the registry",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.loginEvents,
		c.escalations,
		c.activeCounters,
		c.phaseDuration,
		c.phaseFailures,
		c.devicesDetected,
		c.devicesKnown,
	)

	return c
}

// Registry returns the private registry, for serving or for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveLoginEvent(kind string, escalated bool) {
	c.loginEvents.WithLabelValues(kind).Inc()

	if escalated {
		c.escalations.Inc()
	}
}

func (c *Collector) SetActiveAttemptCounters(n int) {
	c.activeCounters.Set(float64(n))
}

func (c *Collector) ObserveScanPhase(phase string, d time.Duration, failed bool) {
	c.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())

	if failed {
		c.phaseFailures.WithLabelValues(phase).Inc()
	}
}

func (c *Collector) ObserveNewDevice() {
	c.devicesDetected.Inc()
}

func (c *Collector) SetKnownDevices(n int) {
	c.devicesKnown.Set(float64(n))
}
