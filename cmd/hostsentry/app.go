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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/hostsentry/pkg/config"
	"github.com/carverauto/hostsentry/pkg/consumers/logins"
	"github.com/carverauto/hostsentry/pkg/correlator"
	"github.com/carverauto/hostsentry/pkg/discovery"
	"github.com/carverauto/hostsentry/pkg/lifecycle"
	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/carverauto/hostsentry/pkg/metrics"
	"github.com/carverauto/hostsentry/pkg/models"
	"github.com/carverauto/hostsentry/pkg/natsutil"
	"github.com/carverauto/hostsentry/pkg/oui"
	"github.com/carverauto/hostsentry/pkg/scan"
	"github.com/carverauto/hostsentry/pkg/sink"
)

var _ discovery.ProbeGateway = (*scan.Gateway)(nil)

var errNATSDisconnected = errors.New("nats connection is not connected")

// app holds the wired components of one hostsentry process.
type app struct {
	cfg        *Config
	configPath string
	logger     logger.Logger

	catalog    *oui.Catalog
	engine     *discovery.Engine
	correlator *correlator.Correlator
	collector  *metrics.Collector
	events     sink.EventSink
	nc         *nats.Conn
	geo        *sink.GeoIP

	services []lifecycle.Service

	reloadMu sync.Mutex
}

func newApp(ctx context.Context, cfg *Config, configPath string, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, configPath: configPath, logger: log}

	if err := a.build(ctx); err != nil {
		a.close()

		return nil, err
	}

	return a, nil
}

func (a *app) build(ctx context.Context) error {
	if a.cfg.Metrics.Enabled {
		a.collector = metrics.NewCollector()
	}

	a.loadVendors()
	a.openGeoIP()

	out, js, err := a.buildSinks(ctx)
	if err != nil {
		return err
	}

	a.events = out

	gateway, err := scan.NewGateway(&a.cfg.Scan, lifecycle.ComponentLogger(a.logger, "scan"))
	if err != nil {
		return fmt.Errorf("failed to create probe gateway: %w", err)
	}

	engineOpts := []discovery.Option{discovery.WithVendorLookup(a.catalog)}
	corrOpts := []correlator.Option{}

	if a.collector != nil {
		engineOpts = append(engineOpts, discovery.WithMetrics(a.collector))
		corrOpts = append(corrOpts, correlator.WithMetrics(a.collector))
	}

	a.engine, err = discovery.New(a.cfg.Discovery, gateway, out, lifecycle.ComponentLogger(a.logger, "discovery"), engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create discovery engine: %w", err)
	}

	a.correlator, err = correlator.New(a.cfg.Correlator, out, lifecycle.ComponentLogger(a.logger, "correlator"), corrOpts...)
	if err != nil {
		return fmt.Errorf("failed to create login correlator: %w", err)
	}

	a.services = append(a.services, a.correlator)

	if a.cfg.Logins.Enabled {
		consumer, err := logins.NewService(a.cfg.Logins, js, a.correlator, lifecycle.ComponentLogger(a.logger, "logins"))
		if err != nil {
			return fmt.Errorf("failed to create login consumer: %w", err)
		}

		a.services = append(a.services, consumer)
	}

	a.services = append(a.services, a.engine)

	if a.cfg.Vendors.Watch && a.cfg.Vendors.Path != "" {
		a.services = append(a.services, lifecycle.Background("vendor-watch", a.logger, a.catalog.Watch))
	}

	if a.configPath != "" {
		a.services = append(a.services, lifecycle.Background("config-watch", a.logger, func(ctx context.Context) error {
			return config.WatchFile(ctx, a.configPath, a.logger, a.reload)
		}))
	}

	if a.collector != nil {
		server := metrics.NewServer(a.cfg.Metrics.ListenAddr, a.collector, lifecycle.ComponentLogger(a.logger, "metrics"))
		if a.nc != nil {
			server.AddHealthCheck("nats", a.natsHealthy)
		}

		a.services = append(a.services, server)
	}

	return nil
}

// loadVendors reads the vendor file. A missing or unreadable file leaves an
// empty catalog, so every vendor resolves through the heuristics.
func (a *app) loadVendors() {
	a.catalog = oui.NewCatalog(a.cfg.Vendors.Path, lifecycle.ComponentLogger(a.logger, "oui"))

	if a.cfg.Vendors.Path == "" {
		a.logger.Warn().Msg("No vendor file configured, vendor lookups use built-in heuristics only")

		return
	}

	if err := a.catalog.Reload(); err != nil {
		a.logger.Warn().Err(err).Str("path", a.cfg.Vendors.Path).Msg("Vendor file could not be loaded")
	}
}

func (a *app) openGeoIP() {
	if a.cfg.GeoIP.Path == "" {
		return
	}

	geo, err := sink.OpenGeoIP(a.cfg.GeoIP.Path)
	if err != nil {
		a.logger.Warn().Err(err).Msg("GeoIP enrichment disabled")

		return
	}

	a.geo = geo
}

// buildSinks assembles the log sink and, when NATS is enabled, the JetStream
// sink. It returns the JetStream context for the login consumer.
func (a *app) buildSinks(ctx context.Context) (sink.EventSink, jetstream.JetStream, error) {
	var geo sink.GeoLocator
	if a.geo != nil {
		geo = a.geo
	}

	sinks := []sink.EventSink{sink.NewLogSink(lifecycle.ComponentLogger(a.logger, "events"), geo)}

	if !a.cfg.NATS.Enabled {
		return sink.NewMulti(sinks...), nil, nil
	}

	natsLog := lifecycle.ComponentLogger(a.logger, "nats")

	nc, err := natsutil.Connect(a.cfg.NATS, natsLog)
	if err != nil {
		return nil, nil, err
	}

	a.nc = nc

	publisher, err := natsutil.CreateEventPublisher(ctx, nc, a.cfg.NATS, natsLog)
	if err != nil {
		return nil, nil, err
	}

	var js jetstream.JetStream
	if a.cfg.NATS.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, a.cfg.NATS.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	sinks = append(sinks, sink.NewNATSSink(publisher, natsLog, sink.WithGeoLocator(geo)))

	return sink.NewMulti(sinks...), js, nil
}

func (a *app) natsHealthy() error {
	if a.nc.Status() != nats.CONNECTED {
		return fmt.Errorf("%w: %s", errNATSDisconnected, a.nc.Status())
	}

	return nil
}

// reload re-reads the config file and applies the hot sections. Changes to
// other sections are reported as needing a restart.
func (a *app) reload() {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	next := DefaultConfig()

	if err := config.NewFileConfigLoader(a.logger).Load(context.Background(), a.configPath, next); err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring unreadable configuration update")

		return
	}

	if err := next.Validate(); err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring invalid configuration update")

		return
	}

	if level, err := logger.ParseLevel(next.Logging); err == nil {
		a.logger.SetLevel(level)
	}

	if err := a.correlator.SetMaxFailedAttempts(next.Correlator.MaxFailedAttempts); err != nil {
		a.logger.Warn().Err(err).Msg("Rejected max_failed_attempts update")
	}

	if err := a.correlator.SetTimeWindow(next.Correlator.TimeWindow.Std()); err != nil {
		a.logger.Warn().Err(err).Msg("Rejected time_window update")
	}

	if changed := config.FieldsChangedByTag(a.cfg, next, "reload", map[string]bool{"restart": true}); len(changed) > 0 {
		a.logger.Warn().Strs("sections", changed).Msg("Configuration changes need a restart to take effect")
	}

	a.cfg.Logging = next.Logging
	a.cfg.Correlator = next.Correlator

	a.events.OnLogMessage("Configuration reloaded", models.LogLevelInfo)
}

type scanReport struct {
	Summary *discovery.ScanSummary  `json:"summary"`
	Devices []*models.NetworkDevice `json:"devices"`
}

// scanOnce runs a single full scan and writes the summary and devices as JSON.
func (a *app) scanOnce(ctx context.Context, w io.Writer) error {
	summary, err := a.engine.PerformFullScan(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(scanReport{Summary: summary, Devices: a.engine.Devices()})
}

func (a *app) close() {
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil {
			a.nc.Close()
		}
	}

	if a.geo != nil {
		_ = a.geo.Close()
	}
}
