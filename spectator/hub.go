// Package spectator serves a running match over HTTP: the latest snapshot,
// prometheus metrics and a websocket feed.
package spectator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/observability"
)

const (
	MaxClients   = 256
	writeTimeout = 2 * time.Second
)

// Hub fans snapshots out to websocket clients. Run owns every write.
type Hub struct {
	logger   *zap.Logger
	metrics  *observability.Metrics
	upgrader websocket.Upgrader

	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub builds a hub accepting the given origins; "*" accepts any. metrics
// may be nil.
func NewHub(origins []string, logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		logger:     logger,
		metrics:    metrics,
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
	allowed := newOriginSet(origins)
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowed.allows(origin) {
				return true
			}
			logger.Warn("websocket origin rejected", zap.String("origin", origin))
			return false
		},
	}
	return h
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client. A hub runs once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			h.gauge()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
			h.gauge()
			h.logger.Debug("spectator connected", zap.String("remote", conn.RemoteAddr().String()))

		case conn := <-h.unregister:
			h.drop(conn)

		case msg := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()

			for _, conn := range conns {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.drop(conn)
				}
			}
			if h.metrics != nil {
				h.metrics.Broadcasts.Inc()
			}
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
	h.gauge()
}

func (h *Hub) gauge() {
	if h.metrics != nil {
		h.metrics.Spectators.Set(float64(h.ClientCount()))
	}
}

// Broadcast queues msg for every client. A full queue drops it.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away. Client messages are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= MaxClients {
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

type originSet struct {
	any     bool
	entries map[string]bool
}

func newOriginSet(origins []string) originSet {
	s := originSet{entries: make(map[string]bool, len(origins))}
	for _, o := range origins {
		if o == "*" {
			s.any = true
		}
		s.entries[o] = true
	}
	return s
}

// allows accepts listed origins and same-host requests that send none.
func (s originSet) allows(origin string) bool {
	return s.any || origin == "" || s.entries[origin]
}
