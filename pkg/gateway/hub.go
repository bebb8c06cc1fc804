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

// Package gateway pushes alert channel messages to connected websocket
// clients. Delivery is at-most-once: there is no replay, and a client whose
// outbound buffer is full loses the message rather than slowing the others.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/metrics"
	"github.com/carverauto/skywatch/pkg/models"
)

const connectedMessage = "Live Feed Active"

// Hub is the registry of connected clients. It implements notify.Sink.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	bufferSize     int
	writeTimeout   time.Duration
	pingInterval   time.Duration
	allowedOrigins []string
	upgrader       websocket.Upgrader

	metrics *metrics.Instruments
	logger  logger.Logger
}

type Option func(*Hub)

func WithMetrics(m *metrics.Instruments) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithAllowedOrigins restricts upgrades to the listed origins. "*" allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Hub) {
		h.allowedOrigins = append(h.allowedOrigins, origins...)
	}
}

func NewHub(cfg models.GatewayConfig, log logger.Logger, opts ...Option) *Hub {
	h := &Hub{
		clients:      make(map[*client]struct{}),
		bufferSize:   cfg.ClientBuffer,
		writeTimeout: time.Duration(cfg.WriteTimeout),
		pingInterval: time.Duration(cfg.PingInterval),
		logger:       log,
	}

	if h.bufferSize <= 0 {
		h.bufferSize = models.DefaultClientBuffer
	}

	if h.writeTimeout <= 0 {
		h.writeTimeout = 10 * time.Second
	}

	if h.pingInterval <= 0 {
		h.pingInterval = 30 * time.Second
	}

	for _, opt := range opts {
		opt(h)
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Deliver broadcasts msg to every client.
func (h *Hub) Deliver(ctx context.Context, msg models.ChannelMessage) {
	h.Broadcast(ctx, msg)
}

// Broadcast queues msg on every client without blocking and returns how many
// clients accepted it.
func (h *Hub) Broadcast(ctx context.Context, msg models.ChannelMessage) int {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("failed to encode realtime message")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	queued := 0

	for c := range h.clients {
		if c.enqueue(payload) {
			queued++

			continue
		}

		h.metrics.GatewayDropped(ctx)
		h.logger.Warn().
			Str("client_id", c.id).
			Str("client_addr", c.addr).
			Str("type", msg.Type).
			Msg("client buffer full, dropping message")
	}

	return queued
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.stop()
		delete(h.clients, c)
		h.metrics.ClientConnected(context.Background(), -1)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.metrics.ClientConnected(context.Background(), 1)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.stop()

	if ok {
		h.metrics.ClientConnected(context.Background(), -1)
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == origin || allowed == "*" {
			return true
		}
	}

	h.logger.Warn().
		Str("origin", origin).
		Strs("allowed_origins", h.allowedOrigins).
		Msg("websocket origin not allowed")

	return false
}

func newClientID() string {
	return uuid.NewString()
}
