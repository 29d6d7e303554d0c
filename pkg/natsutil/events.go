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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const (
	cloudEventsVersion = "1.0"
	eventSource        = "hostsentry"
	eventTypePrefix    = "com.carverauto.hostsentry."
)

// CloudEvent is the CloudEvents 1.0 JSON envelope published for every event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype,omitempty"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// EventPublisher publishes CloudEvents to a JetStream stream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	prefix string
	logger logger.Logger
}

// NewEventPublisher wraps an existing JetStream context.
func NewEventPublisher(js jetstream.JetStream, streamName, subjectPrefix string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:     js,
		stream: streamName,
		prefix: subjectPrefix,
		logger: log,
	}
}

// CreateEventPublisher builds a JetStream context on nc, making sure the
// configured stream exists and captures the event subjects.
func CreateEventPublisher(ctx context.Context, nc *nats.Conn, cfg *Config, log logger.Logger) (*EventPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		js  jetstream.JetStream
		err error
	)

	if cfg.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, cfg.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := EnsureStream(ctx, js, cfg.Stream, cfg.Subjects()); err != nil {
		return nil, err
	}

	return NewEventPublisher(js, cfg.Stream, cfg.SubjectPrefix, log), nil
}

// EnsureStream creates the stream when missing and widens its subject list
// when it does not already cover subjects.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects []string) error {
	stream, err := js.Stream(ctx, name)
	if err != nil {
		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			return fmt.Errorf("failed to look up stream %s: %w", name, err)
		}

		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}

		return nil
	}

	cfg := stream.CachedInfo().Config
	merged := append([]string(nil), cfg.Subjects...)

	for _, subject := range subjects {
		merged = ensureSubjectList(merged, subject)
	}

	if len(merged) == len(cfg.Subjects) {
		return nil
	}

	cfg.Subjects = merged

	if _, err := js.UpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update stream %s: %w", name, err)
	}

	return nil
}

// Subject joins the publisher prefix with an event suffix such as "device.new".
func (p *EventPublisher) Subject(suffix string) string {
	return p.prefix + "." + suffix
}

// Publish wraps data in a CloudEvent of type com.carverauto.hostsentry.<suffix>
// and publishes it to <prefix>.<suffix>.
func (p *EventPublisher) Publish(ctx context.Context, suffix string, at time.Time, data interface{}) (*CloudEvent, error) {
	if suffix == "" {
		return nil, ErrSubjectRequired
	}

	event := &CloudEvent{
		SpecVersion:     cloudEventsVersion,
		ID:              uuid.NewString(),
		Source:          eventSource,
		Type:            eventTypePrefix + suffix,
		DataContentType: "application/json",
		Subject:         p.Subject(suffix),
		Time:            &at,
		Data:            data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", suffix, err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, payload, jetstream.WithMsgID(event.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to publish %s event: %w", suffix, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return event, nil
}

// ensureSubjectList appends subject unless an existing pattern already matches it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token and a
// trailing ">" matches one or more.
func matchesSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, tok := range pTokens {
		if tok == ">" {
			return i == len(pTokens)-1 && len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if tok != "*" && tok != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}
