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

package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/carverauto/hostsentry/pkg/logger"
)

// background adapts a blocking loop to the Service interface.
type background struct {
	name   string
	run    func(ctx context.Context) error
	logger logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Background wraps run, which must block until its context is canceled, as
// a Service. A run error other than cancellation is logged.
func Background(name string, log logger.Logger, run func(ctx context.Context) error) Service {
	return &background{name: name, run: run, logger: log}
}

func (b *background) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		if err := b.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Error().Err(err).Str("task", b.name).Msg("Background task exited")
		}
	}(b.done)

	return nil
}

func (b *background) Stop(ctx context.Context) error {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel = nil
	b.mu.Unlock()

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
