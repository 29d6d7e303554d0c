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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const fetchRetryDelay = time.Second

// Consumer pulls login messages from a durable JetStream consumer.
type Consumer struct {
	consumer jetstream.Consumer
	cfg      *Config
	logger   logger.Logger
}

// NewConsumer gets the durable consumer or creates it filtered to the login subject.
func NewConsumer(ctx context.Context, js jetstream.JetStream, cfg *Config, log logger.Logger) (*Consumer, error) {
	log.Debug().
		Str("stream", cfg.Stream).
		Str("consumer", cfg.ConsumerName).
		Msg("Creating/getting pull consumer")

	consumer, err := js.Consumer(ctx, cfg.Stream, cfg.ConsumerName)
	if err != nil {
		if !errors.Is(err, jetstream.ErrConsumerNotFound) {
			return nil, fmt.Errorf("failed to get consumer %s: %w", cfg.ConsumerName, err)
		}

		consumer, err = js.CreateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
			Durable:       cfg.ConsumerName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       cfg.AckWait.Std(),
			MaxDeliver:    cfg.MaxDeliver,
			MaxAckPending: defaultMaxAckPending,
			FilterSubject: cfg.Subject,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	return &Consumer{consumer: consumer, cfg: cfg, logger: log}, nil
}

// ProcessMessages fetches batches until ctx is done.
func (c *Consumer) ProcessMessages(ctx context.Context, processor *Processor) {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("consumer", c.cfg.ConsumerName).
		Msg("Starting login consumer")

	for {
		if ctx.Err() != nil {
			c.logger.Info().Msg("Stopping login consumer")

			return
		}

		msgs, err := c.consumer.Fetch(c.cfg.FetchBatch, jetstream.FetchMaxWait(c.cfg.FetchWait.Std()))
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to fetch login messages")

			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchRetryDelay):
			}

			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(msg, processor)
		}

		if fetchErr := msgs.Error(); fetchErr != nil && !errors.Is(fetchErr, jetstream.ErrNoMessages) {
			c.logger.Debug().Err(fetchErr).Msg("Fetch error")
		}
	}
}

// handleMessage acks recorded messages and terminates undecodable ones so
// they are not redelivered.
func (c *Consumer) handleMessage(msg jetstream.Msg, processor *Processor) {
	n, err := processor.Process(msg.Data())
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("subject", msg.Subject()).
			Msg("Dropping undecodable login message")

		if termErr := msg.Term(); termErr != nil {
			c.logger.Debug().Err(termErr).Msg("Failed to terminate message")
		}

		return
	}

	if ackErr := msg.Ack(); ackErr != nil {
		c.logger.Warn().Err(ackErr).Msg("Failed to ack login message")

		return
	}

	c.logger.Debug().Int("events", n).Str("subject", msg.Subject()).Msg("Processed login message")
}
