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

package sink

import (
	"github.com/rs/zerolog"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// LogSink writes every notification as a structured log line.
type LogSink struct {
	logger logger.Logger
	geo    GeoLocator
}

// NewLogSink creates a log sink. geo may be nil.
func NewLogSink(log logger.Logger, geo GeoLocator) *LogSink {
	return &LogSink{logger: log, geo: geo}
}

func (s *LogSink) OnFailedLogin(event models.LoginEvent) {
	s.logger.Warn().
		Str("username", event.Username).
		Str("source_ip", event.SourceIP).
		Str("computer", event.Computer).
		Time("timestamp", event.Timestamp).
		Msg("Failed login")
}

func (s *LogSink) OnSuspiciousActivity(key string, count int) {
	ev := s.logger.Error().
		Str("key", key).
		Int("failed_attempts", count)

	if s.geo != nil {
		if country := s.geo.Country(SourceFromKey(key)); country != "" {
			ev = ev.Str("country", country)
		}
	}

	ev.Msg("Suspicious login activity")
}

func (s *LogSink) OnNewDeviceDetected(device *models.NetworkDevice) {
	s.device(s.logger.Info(), device).Msg("New device detected")
}

func (s *LogSink) OnDeviceStatusChanged(device *models.NetworkDevice) {
	s.device(s.logger.Info(), device).Msg("Device updated")
}

func (s *LogSink) OnLogMessage(text string, level models.LogLevel) {
	s.event(level).Msg(text)
}

func (*LogSink) device(ev *zerolog.Event, d *models.NetworkDevice) *zerolog.Event {
	return ev.
		Str("ip", d.IPAddress).
		Str("mac", d.MACAddress).
		Str("hostname", d.Hostname).
		Str("vendor", d.Vendor).
		Str("device_type", d.DeviceType).
		Str("os", d.OperatingSystem).
		Str("status", string(d.Status)).
		Ints("open_ports", d.OpenPorts).
		Str("risk", string(d.RiskLevel)).
		Uint64("revision", d.Revision)
}

// event maps a notification level onto the matching logger event.
func (s *LogSink) event(level models.LogLevel) *zerolog.Event {
	switch level {
	case models.LogLevelDebug:
		return s.logger.Debug()
	case models.LogLevelWarning:
		return s.logger.Warn()
	case models.LogLevelError:
		return s.logger.Error()
	case models.LogLevelInfo:
		return s.logger.Info()
	default:
		return s.logger.Info()
	}
}
