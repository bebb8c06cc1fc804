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

// Package notify consumes the datastore alert channel. A Listener holds one
// dedicated connection, LISTENs on the channel, and hands every parsed
// notification to its sinks. Lost connections are re-established with capped
// exponential backoff and jitter, forever, until the context ends.
//
// Run exactly one Listener per channel per process; sinks fan out from there.
package notify

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
)

const closeTimeout = 5 * time.Second

var ErrConnectorRequired = errors.New("notify: connector is required")

// State is the listener connection state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateListening
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateListening:
		return "LISTENING"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Sink receives every parsed channel message. Deliver must not block for long:
// it runs on the listener goroutine.
type Sink interface {
	Deliver(ctx context.Context, msg models.ChannelMessage)
}

type Listener struct {
	connector Connector
	channel   string
	initial   time.Duration
	max       time.Duration
	sinks     []Sink
	state     atomic.Int32
	metrics   *metrics.Instruments
	logger    logger.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

type Option func(*Listener)

// WithSinks registers the fan-out targets.
func WithSinks(sinks ...Sink) Option {
	return func(l *Listener) {
		l.sinks = append(l.sinks, sinks...)
	}
}

func WithMetrics(m *metrics.Instruments) Option {
	return func(l *Listener) {
		l.metrics = m
	}
}

func New(cfg models.NotifyConfig, connector Connector, log logger.Logger, opts ...Option) (*Listener, error) {
	if connector == nil {
		return nil, ErrConnectorRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Listener{
		connector: connector,
		channel:   cfg.Channel,
		initial:   time.Duration(cfg.InitialBackoff),
		max:       time.Duration(cfg.MaxBackoff),
		logger:    log,
		sleep:     sleepContext,
		jitter:    rand.Float64,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// State reports the current connection state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

func (l *Listener) setState(s State) {
	if prev := State(l.state.Swap(int32(s))); prev != s {
		l.logger.Debug().
			Str("channel", l.channel).
			Str("from", prev.String()).
			Str("to", s.String()).
			Msg("listener state change")
	}
}

// Run listens until ctx is done, reconnecting after every failure. It returns
// nil on cancellation.
func (l *Listener) Run(ctx context.Context) error {
	attempt := 0

	defer l.setState(StateDisconnected)

	for {
		if ctx.Err() != nil {
			return nil
		}

		l.setState(StateConnecting)

		err := l.listen(ctx, &attempt)

		l.setState(StateDisconnected)

		if ctx.Err() != nil {
			return nil
		}

		attempt++
		delay := l.backoff(attempt)

		l.logger.Warn().
			Err(err).
			Str("channel", l.channel).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("alert listener disconnected, reconnecting")

		l.metrics.ListenerReconnect(ctx)

		if err := l.sleep(ctx, delay); err != nil {
			return nil
		}
	}
}

// listen runs one connection lifetime. It resets attempt once LISTEN succeeds.
func (l *Listener) listen(ctx context.Context, attempt *int) error {
	conn, err := l.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		if err := conn.Close(closeCtx); err != nil {
			l.logger.Debug().Err(err).Msg("closing listener connection")
		}
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}

	*attempt = 0

	l.setState(StateListening)
	l.logger.Info().Str("channel", l.channel).Msg("listening for alerts")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		l.dispatch(ctx, n.Payload)
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	msg, err := ParsePayload(payload)
	if err != nil {
		l.metrics.NotificationMalformed(ctx)
		l.logger.Warn().
			Err(err).
			Str("channel", l.channel).
			Int("payload_bytes", len(payload)).
			Msg("dropping malformed alert payload")

		return
	}

	l.metrics.NotificationReceived(ctx, msg.Type)

	for _, s := range l.sinks {
		s.Deliver(ctx, msg)
	}
}

// backoff returns the delay before reconnect attempt n (n >= 1): the capped
// exponential delay with its upper half randomised.
func (l *Listener) backoff(n int) time.Duration {
	ceiling := l.initial

	for i := 1; i < n && ceiling < l.max; i++ {
		ceiling *= 2
	}

	if ceiling > l.max {
		ceiling = l.max
	}

	half := ceiling / 2

	return half + time.Duration(l.jitter()*float64(ceiling-half))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
