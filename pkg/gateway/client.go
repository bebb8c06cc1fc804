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

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/skywatch/pkg/models"
)

const maxInboundMessage = 512

type client struct {
	id   string
	addr string
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(addr string, buffer int) *client {
	return &client{
		id:   newClientID(),
		addr: addr,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the buffer is full or the
// client is gone.
func (c *client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// ServeWS upgrades the request and streams alerts until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("websocket upgrade failed")

		return
	}

	c := newClient(conn.RemoteAddr().String(), h.bufferSize)

	hello, err := json.Marshal(models.ChannelMessage{
		Type:    models.MessageTypeConnected,
		Message: connectedMessage,
	})
	if err == nil {
		c.send <- hello
	}

	h.register(c)

	start := time.Now()

	h.logger.Info().
		Str("client_id", c.id).
		Str("client_addr", c.addr).
		Int("clients", h.Count()).
		Msg("realtime client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.writePump(ctx, conn, c)

	h.readPump(conn, c)

	h.unregister(c)
	_ = conn.Close()

	h.logger.Info().
		Str("client_id", c.id).
		Str("client_addr", c.addr).
		Dur("duration", time.Since(start)).
		Msg("realtime client disconnected")
}

// readPump discards inbound frames. It exists to notice disconnects and to
// process pongs.
func (h *Hub) readPump(conn *websocket.Conn, c *client) {
	pongWait := 2 * h.pingInterval

	conn.SetReadLimit(maxInboundMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var closeErr *websocket.CloseError

			switch {
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				h.logger.Warn().Err(err).Str("client_addr", c.addr).Msg("unexpected websocket close")
			case errors.As(err, &closeErr):
				h.logger.Debug().
					Int("close_code", closeErr.Code).
					Str("client_addr", c.addr).
					Msg("websocket closed")
			default:
				h.logger.Debug().Err(err).Str("client_addr", c.addr).Msg("websocket read ended")
			}

			return
		}

		select {
		case <-c.done:
			return
		default:
		}
	}
}

func (h *Hub) writePump(ctx context.Context, conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(h.pingInterval)

	defer func() {
		ticker.Stop()
		// unblocks readPump when the write side gives up first
		_ = conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(h.writeTimeout))

			return
		case payload := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))

			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug().Err(err).Str("client_addr", c.addr).Msg("websocket write failed")
				c.stop()

				return
			}

			h.metrics.GatewaySent(ctx)
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				h.logger.Debug().Err(err).Str("client_addr", c.addr).Msg("websocket ping failed")
				c.stop()

				return
			}
		}
	}
}
