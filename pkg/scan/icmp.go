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
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/time/rate"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
)

const (
	protocolICMP       = 1
	icmpReadBufferSize = 1500
)

// Pinger sends ICMP echo requests over unprivileged datagram sockets and
// falls back to TCP connect probes when those sockets are not permitted.
type Pinger struct {
	limiter       *rate.Limiter
	fallbackPorts []int
	identifier    int
	sequence      atomic.Uint32
	icmpDisabled  atomic.Bool
	logger        logger.Logger
}

// NewPinger creates a pinger that sends at most ratePerSecond echo requests.
func NewPinger(ratePerSecond, burst int, fallbackPorts []int, log logger.Logger) *Pinger {
	if ratePerSecond <= 0 {
		ratePerSecond = defaultPingRate
	}

	if burst <= 0 {
		burst = defaultPingBurst
	}

	return &Pinger{
		limiter:       rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		fallbackPorts: append([]int(nil), fallbackPorts...),
		identifier:    os.Getpid() & 0xffff,
		logger:        log,
	}
}

// Ping probes ip once. A negative answer is not an error.
func (p *Pinger) Ping(ctx context.Context, ip string, timeout time.Duration) models.PingResult {
	addr := net.ParseIP(ip).To4()
	if addr == nil {
		return models.PingResult{Err: fmt.Errorf("%w: %q", ErrInvalidIPv4, ip)}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return models.PingResult{}
	}

	if !p.icmpDisabled.Load() {
		res, err := p.echo(ctx, addr, timeout)
		if err == nil {
			return res
		}

		if !errors.Is(err, ErrICMPUnavailable) {
			return models.PingResult{}
		}

		if p.icmpDisabled.CompareAndSwap(false, true) {
			p.logger.Warn().Err(err).Msg("Unprivileged ICMP not permitted, falling back to TCP connect probes")
		}
	}

	if len(p.fallbackPorts) == 0 {
		return models.PingResult{Err: ErrICMPUnavailable}
	}

	return p.connectProbe(ctx, ip, timeout)
}

func (p *Pinger) echo(ctx context.Context, addr net.IP, timeout time.Duration) (models.PingResult, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return models.PingResult{}, fmt.Errorf("%w: %w", ErrICMPUnavailable, err)
	}
	defer func() { _ = conn.Close() }()

	seq := int(p.sequence.Add(1) & 0xffff)

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.identifier,
			Seq:  seq,
			Data: []byte("hostsentry"),
		},
	}

	payload, err := msg.Marshal(nil)
	if err != nil {
		return models.PingResult{}, fmt.Errorf("failed to marshal echo request: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return models.PingResult{}, err
	}

	start := time.Now()

	if _, err := conn.WriteTo(payload, &net.UDPAddr{IP: addr}); err != nil {
		return models.PingResult{}, err
	}

	buf := make([]byte, icmpReadBufferSize)

	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return models.PingResult{}, err
		}

		if udp, ok := peer.(*net.UDPAddr); !ok || !udp.IP.Equal(addr) {
			continue
		}

		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}

		if reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}

		// the kernel rewrites the identifier on datagram sockets, so only the
		// sequence number is matched
		if echo, ok := reply.Body.(*icmp.Echo); ok && echo.Seq == seq {
			return models.PingResult{Success: true, RTT: time.Since(start)}, nil
		}
	}
}

func (p *Pinger) connectProbe(ctx context.Context, ip string, timeout time.Duration) models.PingResult {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	var dialer net.Dialer

	for _, port := range p.fallbackPorts {
		conn, err := dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
		if err == nil {
			_ = conn.Close()

			return models.PingResult{Success: true, RTT: time.Since(start)}
		}

		if isConnectionRefused(err) {
			return models.PingResult{Success: true, RTT: time.Since(start)}
		}

		if probeCtx.Err() != nil {
			break
		}
	}

	return models.PingResult{}
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, errConnectionRefused)
}
