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

package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carverauto/hostsentry/pkg/logger"
)

const readHeaderTimeout = 5 * time.Second

var errServerStarted = errors.New("metrics server already started")

// HealthCheck reports nil when the named dependency is usable.
type HealthCheck func() error

// Server serves /metrics and /healthz.
type Server struct {
	addr      string
	collector *Collector
	logger    logger.Logger

	checksMu sync.RWMutex
	checks   map[string]HealthCheck

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

func NewServer(addr string, collector *Collector, log logger.Logger) *Server {
	return &Server{
		addr:      addr,
		collector: collector,
		logger:    log,
		checks:    make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a dependency probed by /healthz.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checksMu.Lock()
	defer s.checksMu.Unlock()

	s.checks[name] = check
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	r.Get("/healthz", s.health)

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.checksMu.RLock()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}

	for _, name := range names {
		if err := s.checks[name](); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()

			continue
		}

		resp.Checks[name] = "ok"
	}

	s.checksMu.RUnlock()

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to write health response")
	}
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return s.addr
	}

	return s.listener.Addr().String()
}

// Start implements lifecycle.Service.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errServerStarted
	}

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Metrics server stopped unexpectedly")
		}
	}(s.srv)

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Metrics server listening")

	return nil
}

// Stop implements lifecycle.Service.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
