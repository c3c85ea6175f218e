package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/digidem/mapeo-config-renderer/internal/event"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 50 * time.Second
	wsPongWait     = 60 * time.Second
	wsSendBuffer   = 8
)

// WSMessage is written to WebSocket clients when the configuration changes.
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is open for the HTTP API as well.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans config.updated events out to connected WebSocket clients.
type hub struct {
	log zerolog.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
	unsub   func()
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(bus *event.Bus, log zerolog.Logger) *hub {
	h := &hub{
		log:     log,
		clients: make(map[*wsClient]struct{}),
		unsub:   func() {},
	}
	if bus != nil {
		h.unsub = bus.Subscribe(event.ConfigUpdated, func(event.Event) {
			h.broadcast(WSMessage{Type: NotifyPresetsUpdate, Message: PresetsUpdatedMessage})
		})
	}
	return h
}

func (h *hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Msg("WebSocket message dropped: client too slow")
		}
	}
}

// close disconnects every client and stops listening for events.
func (h *hub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.unsub()
}

// serveWebSocket handles GET /ws.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	if !s.hub.register(c) {
		conn.Close()
		return
	}
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Client connected")

	go c.writePump()
	c.readPump()

	s.hub.unregister(c)
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Client disconnected")
}

// readPump discards incoming messages until the connection fails.
func (c *wsClient) readPump() {
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

// writePump owns all writes to the connection. It exits when send is
// closed or a write fails, and closes the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
