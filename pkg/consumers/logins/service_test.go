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
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/hostsentry/pkg/correlator"
	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/carverauto/hostsentry/pkg/sink"
)

type captureRecorder struct {
	mu     sync.Mutex
	events []models.LoginEvent
}

func (c *captureRecorder) RecordEvent(event models.LoginEvent) *models.LoginNotification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !event.Kind.Valid() {
		return nil
	}

	c.events = append(c.events, event)

	return &models.LoginNotification{Event: event, Key: event.Key()}
}

func TestProcessorDecodesObjectAndArray(t *testing.T) {
	rec := &captureRecorder{}
	p := NewProcessor(rec, logger.NewTestLogger())

	n, err := p.Process([]byte(`{"timestamp":"2024-01-02T03:04:05Z","username":"alice","source_ip":"10.0.0.9","computer":"WS1","kind":"FailedLogin"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.Process([]byte(`[
		{"username":"bob","source_ip":"10.0.0.8","kind":4625},
		{"username":"bob","source_ip":"10.0.0.8","kind":"success"},
		{"username":"bob","source_ip":"10.0.0.8"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "an event without a kind is ignored")

	require.Len(t, rec.events, 3)
	assert.Equal(t, models.FailedLogin, rec.events[0].Kind)
	assert.Equal(t, "WS1", rec.events[0].Computer)
	assert.Equal(t, models.FailedLogin, rec.events[1].Kind)
	assert.Equal(t, models.SuccessfulLogin, rec.events[2].Kind)
}

func TestProcessorRejectsGarbage(t *testing.T) {
	p := NewProcessor(&captureRecorder{}, logger.NewTestLogger())

	for _, payload := range []string{"", "   ", "not json", `{"kind":"Teleported"}`, `[{"kind":true}]`} {
		_, err := p.Process([]byte(payload))
		require.ErrorIs(t, err, ErrInvalidPayload, payload)
	}
}

func TestProcessorSkipsBadArrayElements(t *testing.T) {
	rec := &captureRecorder{}
	p := NewProcessor(rec, logger.NewTestLogger())

	n, err := p.Process([]byte(`[
		{"username":"carol","source_ip":"10.0.0.7","kind":"FailedLogin"},
		{"username":"carol","source_ip":"10.0.0.7","kind":"Teleported"},
		{"username":"carol","source_ip":"10.0.0.7","kind":4625}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "carol", rec.events[1].Username)

	n, err = p.Process([]byte(`[]`))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Stream: "S", ConsumerName: "c", Subject: "hostsentry.logins"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultMaxDeliver, cfg.MaxDeliver)
	assert.Equal(t, defaultFetchBatch, cfg.FetchBatch)

	require.ErrorIs(t, (&Config{ConsumerName: "c", Subject: "s"}).Validate(), ErrMissingStreamName)
	require.ErrorIs(t, (&Config{Stream: "S", Subject: "s"}).Validate(), ErrMissingConsumerName)
	require.ErrorIs(t, (&Config{Stream: "S", ConsumerName: "c"}).Validate(), ErrMissingSubject)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(DefaultConfig(), nil, &captureRecorder{}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrJetStreamRequired)
}

func TestServiceFeedsCorrelator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv := runJetStreamServer(t)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	recorder := sink.NewRecorder()

	corrCfg := correlator.DefaultConfig()
	corrCfg.MaxFailedAttempts = 2

	corr, err := correlator.New(corrCfg, recorder, logger.NewTestLogger())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.FetchWait = models.Duration(time.Second)

	svc, err := NewService(cfg, js, corr, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx))
	require.ErrorIs(t, svc.Start(ctx), ErrConsumerAlreadyStart)

	for i := 0; i < 2; i++ {
		payload, err := json.Marshal(models.LoginEvent{
			Timestamp: time.Now(),
			Username:  "admin",
			SourceIP:  "192.0.2.44",
			Kind:      models.FailedLogin,
		})
		require.NoError(t, err)

		_, err = js.Publish(ctx, cfg.Subject, payload)
		require.NoError(t, err)
	}

	_, err = js.Publish(ctx, cfg.Subject, []byte("garbage"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(recorder.Suspicious()) == 1
	}, 10*time.Second, 50*time.Millisecond)

	assert.Equal(t, sink.SuspiciousRecord{Key: "192.0.2.44_admin", Count: 2}, recorder.Suspicious()[0])
	assert.Len(t, recorder.FailedLogins(), 2)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	require.NoError(t, svc.Stop(stopCtx))
	require.NoError(t, svc.Stop(stopCtx))
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	srv, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	t.Cleanup(srv.Shutdown)

	return srv
}
