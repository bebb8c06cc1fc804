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
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/carverauto/skywatch"

// Instruments groups every counter the pipeline records. A nil *Instruments is
// valid and records nothing.
type Instruments struct {
	positions        metric.Int64Counter
	classifications  metric.Int64Counter
	detections       metric.Int64Counter
	notifications    metric.Int64Counter
	malformed        metric.Int64Counter
	reconnects       metric.Int64Counter
	gatewaySent      metric.Int64Counter
	gatewayDropped   metric.Int64Counter
	relayPublished   metric.Int64Counter
	relayFailed      metric.Int64Counter
	relayDropped     metric.Int64Counter
	ingestMessages   metric.Int64Counter
	connectedClients metric.Int64UpDownCounter
}

// New creates the instruments from meter.
func New(meter metric.Meter) (*Instruments, error) {
	var (
		i    Instruments
		errs []error
	)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)

		return c
	}

	i.positions = counter("skywatch.positions.ingested", "Position reports evaluated by the breach detector")
	i.classifications = counter("skywatch.classifications", "Breach and proximity classifications emitted")
	i.detections = counter("skywatch.detections.logged", "Detections stored")
	i.notifications = counter("skywatch.notifications.received", "Alert channel notifications received")
	i.malformed = counter("skywatch.notifications.malformed", "Alert channel payloads that failed to parse")
	i.reconnects = counter("skywatch.listener.reconnects", "Alert listener reconnect attempts")
	i.gatewaySent = counter("skywatch.gateway.messages.sent", "Messages queued to realtime clients")
	i.gatewayDropped = counter("skywatch.gateway.messages.dropped", "Messages dropped for slow realtime clients")
	i.relayPublished = counter("skywatch.relay.published", "Alerts republished to the message bus")
	i.relayFailed = counter("skywatch.relay.failed", "Alerts that failed to republish")
	i.relayDropped = counter("skywatch.relay.dropped", "Alerts dropped because the relay queue was full")
	i.ingestMessages = counter("skywatch.ingest.messages", "Telemetry messages received from the broker")

	clients, err := meter.Int64UpDownCounter("skywatch.gateway.clients",
		metric.WithDescription("Connected realtime clients"))
	errs = append(errs, err)
	i.connectedClients = clients

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &i, nil
}

// FromGlobal builds instruments from the global meter provider, falling back
// to no-op instruments if creation fails.
func FromGlobal() *Instruments {
	i, err := New(otel.Meter(meterName))
	if err != nil {
		return Noop()
	}

	return i
}

// Noop returns instruments that record nothing.
func Noop() *Instruments {
	i, _ := New(noop.NewMeterProvider().Meter(meterName))

	return i
}

func add(ctx context.Context, c metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}

	if len(attrs) == 0 {
		c.Add(ctx, n)
		return
	}

	c.Add(ctx, n, metric.WithAttributes(attrs...))
}

func (i *Instruments) PositionIngested(ctx context.Context) {
	if i != nil {
		add(ctx, i.positions, 1)
	}
}

func (i *Instruments) Classified(ctx context.Context, kind, targetKind string) {
	if i != nil {
		add(ctx, i.classifications, 1,
			attribute.String("kind", kind), attribute.String("target_kind", targetKind))
	}
}

func (i *Instruments) DetectionLogged(ctx context.Context, critical bool) {
	if i != nil {
		add(ctx, i.detections, 1, attribute.Bool("critical", critical))
	}
}

func (i *Instruments) NotificationReceived(ctx context.Context, msgType string) {
	if i != nil {
		add(ctx, i.notifications, 1, attribute.String("type", msgType))
	}
}

func (i *Instruments) NotificationMalformed(ctx context.Context) {
	if i != nil {
		add(ctx, i.malformed, 1)
	}
}

func (i *Instruments) ListenerReconnect(ctx context.Context) {
	if i != nil {
		add(ctx, i.reconnects, 1)
	}
}

func (i *Instruments) GatewaySent(ctx context.Context) {
	if i != nil {
		add(ctx, i.gatewaySent, 1)
	}
}

func (i *Instruments) GatewayDropped(ctx context.Context) {
	if i != nil {
		add(ctx, i.gatewayDropped, 1)
	}
}

func (i *Instruments) RelayPublished(ctx context.Context, ok bool) {
	if i == nil {
		return
	}

	if ok {
		add(ctx, i.relayPublished, 1)
		return
	}

	add(ctx, i.relayFailed, 1)
}

func (i *Instruments) RelayDropped(ctx context.Context) {
	if i != nil {
		add(ctx, i.relayDropped, 1)
	}
}

func (i *Instruments) IngestMessage(ctx context.Context, accepted bool) {
	if i != nil {
		add(ctx, i.ingestMessages, 1, attribute.Bool("accepted", accepted))
	}
}

// ClientConnected adjusts the connected-client gauge by delta.
func (i *Instruments) ClientConnected(ctx context.Context, delta int64) {
	if i != nil && i.connectedClients != nil {
		i.connectedClients.Add(ctx, delta)
	}
}
