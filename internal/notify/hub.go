package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// Hub tracks the browser sockets of each console session and pushes toast
// and confirmation events to them. A session may have several tabs open;
// each tab holds its own connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*hubClient]struct{}
	logger  *slog.Logger
}

// hubClient wraps a connection with a mutex so pings and pushes never
// interleave writes.
type hubClient struct {
	conn *ws.Conn
	mu   sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]map[*hubClient]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(sessionID string, c *hubClient) {
	h.mu.Lock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[*hubClient]struct{})
		h.clients[sessionID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(sessionID string, c *hubClient) {
	h.mu.Lock()
	if set, ok := h.clients[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, sessionID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Push sends an event to every socket of the session. Write failures drop
// the failing socket; the toast remains queued in the Center regardless.
func (h *Hub) Push(sessionID string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event socket marshal failed", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	targets := make([]*hubClient, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := c.conn.WriteMessage(ws.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			h.unregister(sessionID, c)
		}
	}
}

// upgrader keeps gorilla's default same-origin check: a cross-site page must
// not attach a socket just because the browser sends the session cookie.
var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeSocket upgrades the request and keeps the connection alive with
// pings until the browser goes away.
func (h *Hub) ServeSocket(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("event socket upgrade failed", slog.Any("error", err))
		return
	}

	c := &hubClient{conn: conn}
	h.register(sessionID, c)
	h.logger.Debug("event socket connected", slog.String("session_id", sessionID))

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.Lock()
				err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(5*time.Second))
				c.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// The console never reads application data from the browser here; the
	// read loop only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	h.unregister(sessionID, c)
	h.logger.Debug("event socket disconnected", slog.String("session_id", sessionID))
}
