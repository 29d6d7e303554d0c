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
	"context"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/carverauto/hostsentry/pkg/natsutil"
)

// Event subject suffixes appended to the configured prefix.
const (
	SubjectLoginFailed     = "login.failed"
	SubjectLoginSuspicious = "login.suspicious"
	SubjectDeviceNew       = "device.new"
	SubjectDeviceStatus    = "device.status"
	SubjectLog             = "log"

	defaultPublishTimeout = 5 * time.Second
)

// Publisher is the subset of natsutil.EventPublisher the sink needs.
type Publisher interface {
	Publish(ctx context.Context, suffix string, at time.Time, data interface{}) (*natsutil.CloudEvent, error)
}

// SuspiciousActivity is the payload of a login.suspicious event.
type SuspiciousActivity struct {
	Key            string `json:"key"`
	SourceIP       string `json:"source_ip"`
	FailedAttempts int    `json:"failed_attempts"`
	Country        string `json:"country,omitempty"`
}

// LogMessage is the payload of a log event.
type LogMessage struct {
	Text  string          `json:"text"`
	Level models.LogLevel `json:"level"`
}

// NATSSink publishes every notification as a CloudEvent. Publish failures
// are logged and dropped; notifications never block the caller for longer
// than the publish timeout.
type NATSSink struct {
	publisher Publisher
	geo       GeoLocator
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NATSOption customizes a NATSSink.
type NATSOption func(*NATSSink)

// WithGeoLocator adds a country code to suspicious activity events.
func WithGeoLocator(geo GeoLocator) NATSOption {
	return func(s *NATSSink) {
		s.geo = geo
	}
}

// WithPublishTimeout bounds each publish call.
func WithPublishTimeout(d time.Duration) NATSOption {
	return func(s *NATSSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewNATSSink(publisher Publisher, log logger.Logger, opts ...NATSOption) *NATSSink {
	s := &NATSSink{
		publisher: publisher,
		timeout:   defaultPublishTimeout,
		logger:    log,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *NATSSink) OnFailedLogin(event models.LoginEvent) {
	s.publish(SubjectLoginFailed, event.Timestamp, event)
}

func (s *NATSSink) OnSuspiciousActivity(key string, count int) {
	payload := SuspiciousActivity{
		Key:            key,
		SourceIP:       SourceFromKey(key),
		FailedAttempts: count,
	}

	if s.geo != nil {
		payload.Country = s.geo.Country(payload.SourceIP)
	}

	s.publish(SubjectLoginSuspicious, s.now(), payload)
}

func (s *NATSSink) OnNewDeviceDetected(device *models.NetworkDevice) {
	s.publish(SubjectDeviceNew, device.LastSeen, device)
}

func (s *NATSSink) OnDeviceStatusChanged(device *models.NetworkDevice) {
	s.publish(SubjectDeviceStatus, device.LastSeen, device)
}

func (s *NATSSink) OnLogMessage(text string, level models.LogLevel) {
	s.publish(SubjectLog, s.now(), LogMessage{Text: text, Level: level})
}

func (s *NATSSink) publish(suffix string, at time.Time, data interface{}) {
	if at.IsZero() {
		at = s.now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.publisher.Publish(ctx, suffix, at, data); err != nil {
		s.logger.Warn().Err(err).Str("event", suffix).Msg("Failed to publish event")
	}
}
