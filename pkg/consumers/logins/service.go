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
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/hostsentry/pkg/lifecycle"
	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/natsutil"
)

// Service runs the login consumer as a lifecycle.Service.
type Service struct {
	cfg       *Config
	js        jetstream.JetStream
	processor *Processor
	logger    logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(cfg *Config, js jetstream.JetStream, recorder EventRecorder, log logger.Logger) (*Service, error) {
	if js == nil {
		return nil, ErrJetStreamRequired
	}

	if recorder == nil {
		return nil, ErrRecorderRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		js:        js,
		processor: NewProcessor(recorder, log),
		logger:    log,
	}, nil
}

// Start makes sure the stream captures the login subject, binds the durable
// consumer and begins fetching in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrConsumerAlreadyStart
	}

	if err := natsutil.EnsureStream(ctx, s.js, s.cfg.Stream, []string{s.cfg.Subject}); err != nil {
		return err
	}

	consumer, err := NewConsumer(ctx, s.js, s.cfg, s.logger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		consumer.ProcessMessages(runCtx, s.processor)
	}()

	s.logger.Info().
		Str("stream", s.cfg.Stream).
		Str("consumer", s.cfg.ConsumerName).
		Str("subject", s.cfg.Subject).
		Msg("Login consumer started")

	return nil
}

// Stop cancels fetching and waits for the in-flight batch or ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Login consumer stopped")

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ lifecycle.Service = (*Service)(nil)
