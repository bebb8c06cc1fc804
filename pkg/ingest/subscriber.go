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

// Package ingest feeds asset telemetry published on an MQTT broker into the
// breach detector.
package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
)

//go:generate mockgen -destination=mock_ingest.go -package=ingest github.com/carverauto/skywatch/pkg/ingest Evaluator

const (
	defaultClientID      = "skywatch-sentinel"
	defaultRetryInterval = 5 * time.Second
	subscribeTimeout     = 10 * time.Second
	disconnectQuiesce    = 250
)

// Evaluator is the detector surface telemetry is routed to.
type Evaluator interface {
	RecordPosition(ctx context.Context, assetID uuid.UUID, lat, lng float64) ([]models.Classification, error)
	LogDetection(ctx context.Context, det *models.Detection) error
}

type Subscriber struct {
	cfg       models.MQTTConfig
	eval      Evaluator
	metrics   *metrics.Instruments
	logger    logger.Logger
	connected atomic.Bool
}

func NewSubscriber(cfg *models.MQTTConfig, eval Evaluator, log logger.Logger, m *metrics.Instruments) *Subscriber {
	c := *cfg
	if c.ClientID == "" {
		c.ClientID = defaultClientID
	}

	if c.RetryInterval <= 0 {
		c.RetryInterval = models.Duration(defaultRetryInterval)
	}

	return &Subscriber{cfg: c, eval: eval, metrics: m, logger: log}
}

// Connected reports whether the broker connection is up and the telemetry
// subscription was acknowledged.
func (s *Subscriber) Connected() bool {
	return s.connected.Load()
}

// Start connects, subscribes and blocks until ctx is done. An unreachable
// broker is retried every RetryInterval, both before the first connect and
// after a lost connection. The subscription is renewed by the connect handler.
func (s *Subscriber) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
	}

	if s.cfg.Password != "" {
		opts.SetPassword(s.cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(s.cfg.RetryInterval))
	opts.SetMaxReconnectInterval(time.Duration(s.cfg.RetryInterval))
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.connected.Store(false)
		s.logger.Warn().Err(err).Str("broker", s.cfg.Broker).Msg("MQTT connection lost")
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.subscribe(ctx, c)
	})

	client := mqtt.NewClient(opts)

	s.logger.Info().Str("broker", s.cfg.Broker).Msg("connecting to MQTT broker")

	token := client.Connect()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
	case <-ctx.Done():
	}

	<-ctx.Done()

	if client.IsConnectionOpen() {
		client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
	}

	client.Disconnect(disconnectQuiesce)
	s.connected.Store(false)

	s.logger.Info().Msg("telemetry subscriber stopped")

	return nil
}

func (s *Subscriber) subscribe(ctx context.Context, c mqtt.Client) {
	token := c.Subscribe(s.cfg.Topic, s.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.Handle(ctx, msg.Topic(), msg.Payload()); err != nil {
			s.logger.Warn().Err(err).Str("topic", msg.Topic()).Msg("dropping telemetry message")
		}
	})

	if !token.WaitTimeout(subscribeTimeout) {
		s.connected.Store(false)
		s.logger.Error().
			Str("topic", s.cfg.Topic).
			Dur("timeout", subscribeTimeout).
			Msg("MQTT subscribe was not acknowledged")

		return
	}

	if err := token.Error(); err != nil {
		s.connected.Store(false)
		s.logger.Error().Err(err).Str("topic", s.cfg.Topic).Msg("MQTT subscribe failed")

		return
	}

	s.connected.Store(true)
	s.logger.Info().Str("topic", s.cfg.Topic).Msg("telemetry subscription active")
}

// Handle routes one broker message to the detector.
func (s *Subscriber) Handle(ctx context.Context, topic string, payload []byte) error {
	report, err := ParseMessage(topic, payload)
	if err != nil {
		s.metrics.IngestMessage(ctx, false)
		return err
	}

	s.metrics.IngestMessage(ctx, true)

	switch report.Kind {
	case KindPosition:
		results, err := s.eval.RecordPosition(ctx, report.AssetID, report.Lat, report.Lng)
		if err != nil {
			return fmt.Errorf("record position: %w", err)
		}

		s.logger.Debug().
			Str("asset_id", report.AssetID.String()).
			Int("classifications", len(results)).
			Msg("telemetry position evaluated")
	case KindDetection:
		if err := s.eval.LogDetection(ctx, report.Detection); err != nil {
			return fmt.Errorf("log detection: %w", err)
		}
	}

	return nil
}
