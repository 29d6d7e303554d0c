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

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/hostsentry/pkg/config"
	"github.com/carverauto/hostsentry/pkg/lifecycle"
	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/natsutil"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.NATS.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, defaultMetricsAddr, cfg.Metrics.ListenAddr)
}

func TestValidateRejectsLoginsWithoutNATS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logins.Enabled = true

	require.ErrorIs(t, cfg.Validate(), errLoginsNeedNATS)
}

func TestValidateDefaultsLoginStreamFromNATS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NATS.Enabled = true
	cfg.NATS.Stream = "EDGE"
	cfg.NATS.LoginSubject = "edge.logins"
	cfg.Logins.Enabled = true
	cfg.Logins.Stream = ""
	cfg.Logins.Subject = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "EDGE", cfg.Logins.Stream)
	assert.Equal(t, "edge.logins", cfg.Logins.Subject)
}

func TestValidateMissingSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discovery = nil

	require.ErrorIs(t, cfg.Validate(), errSectionMissing)

	cfg = DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddr = ""

	require.ErrorIs(t, cfg.Validate(), errMetricsAddrMissing)
}

func TestLoadYAMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostsentry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
correlator:
  max_failed_attempts: 3
  time_window: 2m
nats:
  enabled: true
  url: nats://broker:4222
metrics:
  enabled: true
  listen_addr: 127.0.0.1:9000
`), 0o600))

	cfg := DefaultConfig()
	require.NoError(t, config.NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, cfg))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Correlator.MaxFailedAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Correlator.TimeWindow.Std())
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	assert.Equal(t, natsutil.DefaultStream, cfg.NATS.Stream)
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.ListenAddr)
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	_, _, err := loadConfig(context.Background(), filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
}

func TestReloadAppliesCorrelatorThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostsentry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vendors":{"path":""}}`), 0o600))

	cfg, watchPath, err := loadConfig(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, path, watchPath)

	var buf strings.Builder

	a, err := newApp(context.Background(), cfg, watchPath, lifecycle.NewWriterLogger(&buf))
	require.NoError(t, err)
	t.Cleanup(a.close)

	discoveryLog := lifecycle.ComponentLogger(a.logger, "discovery")

	require.NoError(t, os.WriteFile(path, []byte(`{
		"logging": {"level": "error"},
		"vendors": {"path": ""},
		"correlator": {"max_failed_attempts": 9, "time_window": "30s"},
		"metrics": {"enabled": true, "listen_addr": ":9999"}
	}`), 0o600))

	a.reload()

	buf.Reset()
	discoveryLog.Info().Msg("silenced by reload")
	discoveryLog.Warn().Msg("silenced by reload")
	assert.Empty(t, buf.String(), "component loggers follow the reloaded level")

	maxFailed, window := a.correlator.Settings()
	assert.Equal(t, 9, maxFailed)
	assert.Equal(t, 30*time.Second, window)
	assert.False(t, a.cfg.Metrics.Enabled, "restart-only sections are not applied")
}

func TestReloadIgnoresInvalidUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostsentry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vendors":{"path":""}}`), 0o600))

	cfg, watchPath, err := loadConfig(context.Background(), path)
	require.NoError(t, err)

	a, err := newApp(context.Background(), cfg, watchPath, logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(a.close)

	require.NoError(t, os.WriteFile(path, []byte(`{"correlator": {"max_failed_attempts": -1}}`), 0o600))

	a.reload()

	maxFailed, _ := a.correlator.Settings()
	assert.Equal(t, 5, maxFailed)
}
