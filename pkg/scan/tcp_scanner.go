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

package scan

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

// PortScanner reports which of the given TCP ports accept connections.
type PortScanner interface {
	ScanPorts(ctx context.Context, ip string, ports []int, timeout time.Duration) []int
}

// TCPSweeper is a connect() based port scanner backed by a fixed worker pool.
type TCPSweeper struct {
	concurrency int
	logger      logger.Logger
}

var _ PortScanner = (*TCPSweeper)(nil)

func NewTCPSweeper(concurrency int, log logger.Logger) *TCPSweeper {
	if concurrency <= 0 {
		concurrency = defaultPortConcurrency
	}

	return &TCPSweeper{
		concurrency: concurrency,
		logger:      log,
	}
}

const (
	defaultConcurrencyMultiplier = 2
)

type portResult struct {
	port int
	open bool
}

func (s *TCPSweeper) ScanPorts(ctx context.Context, ip string, ports []int, timeout time.Duration) []int {
	ports = models.NormalizePorts(ports)
	if len(ports) == 0 {
		return nil
	}

	if timeout <= 0 {
		timeout = defaultPortTimeout
	}

	workers := s.concurrency
	if workers > len(ports) {
		workers = len(ports)
	}

	resultCh := make(chan portResult, len(ports))
	workCh := make(chan int, workers*defaultConcurrencyMultiplier)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			s.worker(ctx, ip, timeout, workCh, resultCh)
		}()
	}

	go func() {
		defer close(workCh)

		for _, p := range ports {
			select {
			case <-ctx.Done():
				return
			case workCh <- p:
			}
		}
	}()

	go func() {
		wg.Wait()

		close(resultCh)
	}()

	var open []int

	for r := range resultCh {
		if r.open {
			open = append(open, r.port)
		}
	}

	return models.NormalizePorts(open)
}

func (s *TCPSweeper) worker(ctx context.Context, ip string, timeout time.Duration, workCh <-chan int, resultCh chan<- portResult) {
	for port := range workCh {
		resultCh <- portResult{port: port, open: s.checkPort(ctx, ip, port, timeout)}
	}
}

func (s *TCPSweeper) checkPort(ctx context.Context, host string, port int, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}

	if err := conn.Close(); err != nil {
		s.logger.Debug().Err(err).Str("host", host).Int("port", port).Msg("failed to close connection")
	}

	return true
}
