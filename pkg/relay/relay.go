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

// Package relay republishes alert channel messages to NATS JetStream as
// CloudEvents so downstream consumers get a durable copy of the live feed.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
)

const (
	DefaultStream        = "SKYWATCH_ALERTS"
	DefaultSubjectPrefix = "skywatch.alerts"

	eventSource    = "skywatch/sentinel"
	eventTypeBase  = "com.carverauto.skywatch.alert."
	publishTimeout = 2 * time.Second

	DefaultQueueSize = 256
)

// Publisher is the part of jetstream.JetStream the relay uses.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Event is the CloudEvents 1.0 envelope written to the stream.
type Event struct {
	SpecVersion     string                `json:"specversion"`
	ID              string                `json:"id"`
	Source          string                `json:"source"`
	Type            string                `json:"type"`
	DataContentType string                `json:"datacontenttype"`
	Subject         string                `json:"subject"`
	Time            time.Time             `json:"time"`
	Data            models.ChannelMessage `json:"data"`
}

// Relay implements notify.Sink. Deliver only queues; Run publishes.
type Relay struct {
	js      Publisher
	prefix  string
	queue   chan models.ChannelMessage
	metrics *metrics.Instruments
	logger  logger.Logger
	now     func() time.Time
}

type Option func(*Relay)

// WithQueueSize bounds the number of alerts waiting for a stream ack.
func WithQueueSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.queue = make(chan models.ChannelMessage, n)
		}
	}
}

func New(js Publisher, subjectPrefix string, log logger.Logger, m *metrics.Instruments, opts ...Option) *Relay {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}

	r := &Relay{
		js:      js,
		prefix:  strings.TrimSuffix(subjectPrefix, "."),
		queue:   make(chan models.ChannelMessage, DefaultQueueSize),
		metrics: m,
		logger:  log,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Subject maps a message type onto the relay subject, e.g.
// skywatch.alerts.new_detection.
func (r *Relay) Subject(msgType string) string {
	return r.prefix + "." + strings.ToLower(msgType)
}

// Deliver queues msg for Run and never blocks. When the queue is full the
// alert is dropped and counted.
func (r *Relay) Deliver(ctx context.Context, msg models.ChannelMessage) {
	select {
	case r.queue <- msg:
	default:
		r.metrics.RelayDropped(ctx)
		r.logger.Warn().
			Str("type", msg.Type).
			Int("queue_size", cap(r.queue)).
			Msg("relay queue full, dropping alert")
	}
}

// Run publishes queued alerts one at a time until ctx is done. Alerts still
// queued at that point are discarded.
func (r *Relay) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if n := len(r.queue); n > 0 {
				r.logger.Warn().Int("pending", n).Msg("relay stopped with alerts still queued")
			}

			return
		case msg := <-r.queue:
			r.publishQueued(ctx, msg)
		}
	}
}

func (r *Relay) publishQueued(ctx context.Context, msg models.ChannelMessage) {
	if err := r.Publish(ctx, msg); err != nil {
		r.metrics.RelayPublished(ctx, false)
		r.logger.Warn().Err(err).Str("type", msg.Type).Msg("failed to relay alert")

		return
	}

	r.metrics.RelayPublished(ctx, true)
}

// Pending reports how many alerts are waiting to be published.
func (r *Relay) Pending() int {
	return len(r.queue)
}

func (r *Relay) Publish(ctx context.Context, msg models.ChannelMessage) error {
	event := Event{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Source:          eventSource,
		Type:            eventTypeBase + strings.ToLower(msg.Type),
		DataContentType: "application/json",
		Subject:         r.Subject(msg.Type),
		Time:            r.now().UTC(),
		Data:            msg,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ack, err := r.js.Publish(ctx, event.Subject, payload, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	r.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("seq", ack.Sequence).
		Msg("relayed alert")

	return nil
}

// Connect dials NATS, ensures the alert stream exists and returns a relay on
// top of it. The caller owns the returned connection.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger, m *metrics.Instruments) (*Relay, *nats.Conn, error) {
	stream := cfg.Stream
	if stream == "" {
		stream = DefaultStream
	}

	prefix := strings.TrimSuffix(cfg.SubjectPrefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("skywatch-sentinel"),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.Stream(ctx, stream); err != nil {
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     stream,
			Subjects: []string{prefix + ".>"},
		})
		if err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("failed to create or get stream %s: %w", stream, err)
		}
	}

	log.Info().Str("stream", stream).Str("subjects", prefix+".>").Msg("alert relay ready")

	return New(js, prefix, log, m, WithQueueSize(cfg.QueueSize)), nc, nil
}
