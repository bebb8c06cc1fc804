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

// Package sentinel assembles the detection pipeline, the alert listener, the
// realtime gateway and the HTTP API into one long-running service.
package sentinel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/skywatch/pkg/api"
	"github.com/carverauto/skywatch/pkg/db"
	"github.com/carverauto/skywatch/pkg/detector"
	"github.com/carverauto/skywatch/pkg/gateway"
	"github.com/carverauto/skywatch/pkg/ingest"
	"github.com/carverauto/skywatch/pkg/lifecycle"
	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/notify"
	"github.com/carverauto/skywatch/pkg/relay"
	"github.com/carverauto/skywatch/pkg/tracker"
)

// Server implements lifecycle.Service.
type Server struct {
	cfg *models.SentinelConfig

	pool     *pgxpool.Pool
	db       *db.DB
	tracker  *tracker.Tracker
	detector *detector.Detector
	hub      *gateway.Hub
	listener *notify.Listener
	relay    *relay.Relay
	nc       *nats.Conn
	ingest   *ingest.Subscriber

	httpServer *http.Server
	metrics    *metrics.Instruments
	logger     logger.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ lifecycle.Service = (*Server)(nil)

// NewServer connects to PostgreSQL, optionally migrates, and wires every
// component. NATS and MQTT are only dialed when configured.
func NewServer(ctx context.Context, cfg *models.SentinelConfig, log logger.Logger) (*Server, error) {
	m := metrics.FromGlobal()

	pool, err := db.NewPool(ctx, &cfg.Database, lifecycle.Named(log, "db"))
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		pool:    pool,
		metrics: m,
		logger:  log,
	}

	if err := s.wire(ctx); err != nil {
		s.closeConnections()
		return nil, err
	}

	return s, nil
}

func (s *Server) wire(ctx context.Context) error {
	cfg := s.cfg

	s.db = db.New(s.pool, lifecycle.Named(s.logger, "db"), db.WithNativeRoles(cfg.Database.NativeRoles))

	if cfg.Database.AutoMigrate {
		if err := s.db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	s.tracker = tracker.New(s.db, lifecycle.Named(s.logger, "tracker"))

	det, err := detector.New(cfg.Detector, detector.Deps{
		Zones:  s.db,
		Assets: s.db,
		Events: s.db,
		Path:   s.tracker,
	}, lifecycle.Named(s.logger, "detector"), detector.WithMetrics(s.metrics))
	if err != nil {
		return err
	}

	s.detector = det

	s.hub = gateway.NewHub(cfg.Gateway, lifecycle.Named(s.logger, "gateway"),
		gateway.WithMetrics(s.metrics),
		gateway.WithAllowedOrigins(cfg.CORS.AllowedOrigins...),
	)

	sinks := []notify.Sink{s.hub}

	if cfg.NATS != nil && cfg.NATS.URL != "" {
		r, nc, err := relay.Connect(ctx, cfg.NATS, lifecycle.Named(s.logger, "relay"), s.metrics)
		if err != nil {
			return err
		}

		s.relay = r
		s.nc = nc
		sinks = append(sinks, r)
	}

	connCfg, err := db.ConnConfig(&cfg.Database)
	if err != nil {
		return err
	}

	listener, err := notify.New(cfg.Notify, notify.PgxConnector(connCfg), lifecycle.Named(s.logger, "notify"),
		notify.WithSinks(sinks...),
		notify.WithMetrics(s.metrics),
	)
	if err != nil {
		return err
	}

	s.listener = listener

	if cfg.MQTT != nil && cfg.MQTT.Broker != "" {
		s.ingest = ingest.NewSubscriber(cfg.MQTT, s.detector, lifecycle.Named(s.logger, "ingest"), s.metrics)
	}

	apiServer := api.NewAPIServer(cfg.CORS,
		api.WithDetector(s.detector),
		api.WithPathReader(s.tracker),
		api.WithStore(s.db),
		api.WithAPIKeys(cfg.Auth.APIKeys),
		api.WithWebSocket(cfg.Gateway.Path, http.HandlerFunc(s.hub.ServeWS)),
		api.WithHealth(s.health),
		api.WithLogger(lifecycle.Named(s.logger, "api")),
	)

	s.httpServer = lifecycle.NewHTTPServer(cfg.ListenAddr, apiServer.Router())
	// websocket connections outlive any per-request write deadline
	s.httpServer.WriteTimeout = 0

	return nil
}

// Start launches the listener, the optional relay worker and telemetry
// subscriber, and the HTTP server. It returns once they are running.
func (s *Server) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.relay != nil {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()
			s.relay.Run(runCtx)
		}()
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if err := s.listener.Run(runCtx); err != nil {
			s.logger.Error().Err(err).Msg("alert listener exited")
		}
	}()

	if s.ingest != nil {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			if err := s.ingest.Start(runCtx); err != nil {
				s.logger.Error().Err(err).Msg("telemetry subscriber exited")
			}
		}()
	}

	go func() {
		s.logger.Info().Str("listen_addr", s.cfg.ListenAddr).Msg("Starting HTTP API server")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("HTTP API server error")
		}
	}()

	return nil
}

// Stop drains HTTP, disconnects realtime clients, stops background loops and
// releases connections. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var err error

	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
				err = fmt.Errorf("http shutdown: %w", shutdownErr)
			}
		}

		if s.hub != nil {
			s.hub.Close()
		}

		if s.cancel != nil {
			s.cancel()
		}

		done := make(chan struct{})

		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			s.logger.Warn().Msg("background workers did not stop before the shutdown deadline")
		}

		s.closeConnections()
	})

	return err
}

func (s *Server) closeConnections() {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("error draining NATS connection")
		}
	}

	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Server) health() map[string]interface{} {
	out := map[string]interface{}{}

	if s.listener != nil {
		out["listener"] = s.listener.State().String()
	}

	if s.hub != nil {
		out["clients"] = s.hub.Count()
	}

	out["relay"] = componentState(s.relay != nil, s.nc != nil && s.nc.IsConnected())
	out["ingest"] = componentState(s.ingest != nil, s.ingest != nil && s.ingest.Connected())

	if s.relay != nil {
		out["relay_pending"] = s.relay.Pending()
	}

	return out
}

const (
	stateDisabled     = "disabled"
	stateConnected    = "connected"
	stateDisconnected = "disconnected"
)

func componentState(enabled, connected bool) string {
	switch {
	case !enabled:
		return stateDisabled
	case connected:
		return stateConnected
	default:
		return stateDisconnected
	}
}
