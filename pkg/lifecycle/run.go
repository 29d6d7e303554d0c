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
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// Service is a long-running component managed by Run.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Run starts every service in order, blocks until ctx is canceled or the
// process receives SIGINT/SIGTERM, then stops the services in reverse order.
func Run(ctx context.Context, log logger.Logger, services ...Service) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := make([]Service, 0, len(services))

	for _, svc := range services {
		if err := svc.Start(ctx); err != nil {
			stopAll(log, started)

			return fmt.Errorf("failed to start service: %w", err)
		}

		started = append(started, svc)
	}

	<-ctx.Done()

	log.Info().Msg("Shutdown signal received, stopping services")

	return stopAll(log, started)
}

func stopAll(log logger.Logger, services []Service) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	var errs []error

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping service")

			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
