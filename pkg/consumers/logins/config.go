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

// Package logins consumes normalized login events from NATS JetStream and
// feeds them to the login correlator.
package logins

import (
	"time"

	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/carverauto/hostsentry/pkg/natsutil"
)

const (
	defaultConsumerName  = "hostsentry-logins"
	defaultAckWait       = 30 * time.Second
	defaultMaxDeliver    = 3
	defaultMaxAckPending = 1000
	defaultFetchBatch    = 10
	defaultFetchWait     = 5 * time.Second
)

// Config controls the durable pull consumer.
type Config struct {
	Enabled      bool            `json:"enabled" yaml:"enabled"`
	Stream       string          `json:"stream" yaml:"stream"`
	ConsumerName string          `json:"consumer_name" yaml:"consumer_name"`
	Subject      string          `json:"subject" yaml:"subject"`
	AckWait      models.Duration `json:"ack_wait" yaml:"ack_wait"`
	MaxDeliver   int             `json:"max_deliver" yaml:"max_deliver"`
	FetchBatch   int             `json:"fetch_batch" yaml:"fetch_batch"`
	FetchWait    models.Duration `json:"fetch_wait" yaml:"fetch_wait"`
}

func DefaultConfig() *Config {
	return &Config{
		Stream:       natsutil.DefaultStream,
		ConsumerName: defaultConsumerName,
		Subject:      natsutil.DefaultLoginSubject,
		AckWait:      models.Duration(defaultAckWait),
		MaxDeliver:   defaultMaxDeliver,
		FetchBatch:   defaultFetchBatch,
		FetchWait:    models.Duration(defaultFetchWait),
	}
}

// Validate fills optional fields and rejects missing names.
func (c *Config) Validate() error {
	if c.Stream == "" {
		return ErrMissingStreamName
	}

	if c.ConsumerName == "" {
		return ErrMissingConsumerName
	}

	if c.Subject == "" {
		return ErrMissingSubject
	}

	if c.AckWait <= 0 {
		c.AckWait = models.Duration(defaultAckWait)
	}

	if c.MaxDeliver <= 0 {
		c.MaxDeliver = defaultMaxDeliver
	}

	if c.FetchBatch <= 0 {
		c.FetchBatch = defaultFetchBatch
	}

	if c.FetchWait <= 0 {
		c.FetchWait = models.Duration(defaultFetchWait)
	}

	return nil
}
