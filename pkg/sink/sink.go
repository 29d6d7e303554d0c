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

//go:generate mockgen -destination=mock_sink.go -package=sink github.com/carverauto/hostsentry/pkg/sink EventSink

// Package sink delivers correlator and discovery notifications to logs,
// NATS JetStream and in-memory recorders.
package sink

import (
	"github.com/carverauto/hostsentry/pkg/correlator"
	"github.com/carverauto/hostsentry/pkg/discovery"
	"github.com/carverauto/hostsentry/pkg/models"
)

// EventSink receives every notification produced by the correlator and the
// discovery engine.
type EventSink interface {
	correlator.Notifier
	discovery.Notifier
}

// Multi fans every notification out to each sink in order.
type Multi []EventSink

// NewMulti drops nil sinks.
func NewMulti(sinks ...EventSink) Multi {
	m := make(Multi, 0, len(sinks))

	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}

	return m
}

func (m Multi) OnFailedLogin(event models.LoginEvent) {
	for _, s := range m {
		s.OnFailedLogin(event)
	}
}

func (m Multi) OnSuspiciousActivity(key string, count int) {
	for _, s := range m {
		s.OnSuspiciousActivity(key, count)
	}
}

func (m Multi) OnNewDeviceDetected(device *models.NetworkDevice) {
	for _, s := range m {
		s.OnNewDeviceDetected(device)
	}
}

func (m Multi) OnDeviceStatusChanged(device *models.NetworkDevice) {
	for _, s := range m {
		s.OnDeviceStatusChanged(device)
	}
}

func (m Multi) OnLogMessage(text string, level models.LogLevel) {
	for _, s := range m {
		s.OnLogMessage(text, level)
	}
}

// SourceFromKey returns the source IP part of an attempt counter key.
func SourceFromKey(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '_' {
			return key[:i]
		}
	}

	return key
}
