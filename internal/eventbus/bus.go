// Package eventbus provides the opaque typed broadcaster the engine uses
// to publish telemetry: an UPDATE/DRAW/SYNC-phased WebSocket pub/sub hub
// adapted from the daemon's original lightweight hub. Components publish
// typed telemetry.Event payloads through the bus, and every connected
// client receives them in real time. The bus also handles ping/pong
// keepalives so stale connections get cleaned up automatically.
package eventbus

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/satellabs/ewrange/internal/telemetry"
)

// Bus manages WebSocket client connections and fans out broadcast events
// to all of them. It is safe for concurrent use; register, unregister, and
// broadcast all go through channels, so the tick loop's goroutine never
// blocks on a slow client.
type Bus struct {
	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	upgrader   websocket.Upgrader
}

// New allocates a bus with buffered channels. Call Run in a goroutine to
// start the event loop.
func New() *Bus {
	return &Bus{
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn, 16),
		unregister: make(chan *websocket.Conn, 16),
		broadcast:  make(chan []byte, 1024),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run processes registrations, unregistrations, broadcasts, and keepalive
// pings in a single select loop. It closes all clients when ctx is
// cancelled.
func (b *Bus) Run(ctx context.Context) {
	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range b.clients {
				_ = c.Close()
			}
			return

		case c := <-b.register:
			b.clients[c] = struct{}{}

		case c := <-b.unregister:
			delete(b.clients, c)
			_ = c.Close()

		case msg := <-b.broadcast:
			for c := range b.clients {
				_ = c.SetWriteDeadline(time.Now().Add(3 * time.Second))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					delete(b.clients, c)
					_ = c.Close()
				}
			}

		case <-ping.C:
			for c := range b.clients {
				_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					delete(b.clients, c)
					_ = c.Close()
				}
			}
		}
	}
}

// Handler returns an http.Handler that upgrades incoming requests to
// WebSocket connections and registers them with the bus.
func (b *Bus) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}
		b.register <- conn

		go func() {
			defer func() { b.unregister <- conn }()
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			conn.SetPongHandler(func(string) error {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
				return nil
			})

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

// Publish marshals v to JSON and queues it for delivery to all connected
// clients. If the broadcast channel is full the event is silently dropped
// rather than blocking the publisher — the tick loop must never stall
// waiting on telemetry delivery.
func (b *Bus) Publish(v any) {
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case b.broadcast <- body:
	default:
	}
}

// PublishPhased stamps v's embedded Event with the current time and the
// given phase, then publishes it.
func (b *Bus) PublishPhased(phase telemetry.Phase, v telemetry.Stamped) {
	v.Stamp(phase)
	b.Publish(v)
}
