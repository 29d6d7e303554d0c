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

package logins

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// EventRecorder is satisfied by *correlator.Correlator.
type EventRecorder interface {
	RecordEvent(event models.LoginEvent) *models.LoginNotification
}

// Processor decodes message payloads and records each login event.
type Processor struct {
	recorder EventRecorder
	logger   logger.Logger
}

func NewProcessor(recorder EventRecorder, log logger.Logger) *Processor {
	return &Processor{recorder: recorder, logger: log}
}

// Process accepts one LoginEvent object or an array of them. Array elements
// that fail to decode are logged and skipped. It returns the number of events
// recorded, or ErrInvalidPayload when nothing could be decoded.
func (p *Processor) Process(data []byte) (int, error) {
	events, err := p.decodeEvents(data)
	if err != nil {
		return 0, err
	}

	recorded := 0

	for _, event := range events {
		if p.recorder.RecordEvent(event) == nil {
			continue
		}

		recorded++
	}

	if recorded < len(events) {
		p.logger.Warn().
			Int("received", len(events)).
			Int("recorded", recorded).
			Msg("Some login events were ignored")
	}

	return recorded, nil
}

func (p *Processor) decodeEvents(data []byte) ([]models.LoginEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidPayload)
	}

	if trimmed[0] != '[' {
		var event models.LoginEvent
		if err := json.Unmarshal(trimmed, &event); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}

		return []models.LoginEvent{event}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	events := make([]models.LoginEvent, 0, len(raw))

	var errs []error

	for i, element := range raw {
		var event models.LoginEvent
		if err := json.Unmarshal(element, &event); err != nil {
			p.logger.Warn().
				Err(err).
				Int("index", i).
				RawJSON("element", element).
				Msg("Skipping undecodable login event")

			errs = append(errs, err)

			continue
		}

		events = append(events, event)
	}

	if len(events) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, errors.Join(errs...))
	}

	return events, nil
}
