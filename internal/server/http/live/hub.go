// Package live streams persisted entries to websocket clients.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/query"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is the message written to clients.
type Event struct {
	Type  string       `json:"type"`
	Entry *entry.Entry `json:"entry,omitempty"`
}

// clientCommand is sent by clients to change their filters.
type clientCommand struct {
	Type        string `json:"type"`
	Errors      bool   `json:"errors"`
	NoLifecycle bool   `json:"no_lifecycle"`
	NonMain     bool   `json:"non_main"`
}

// Client is one websocket connection with its own filter set.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	mu      sync.RWMutex
	filters query.FilterSet
}

// Hub fans entries out to connected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan entry.Entry
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     logpkg.Logger
}

// NewHub creates a new Hub.
func NewHub(logger logpkg.Logger) *Hub {
	if logger == nil {
		logger = logpkg.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan entry.Entry, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.WithComponent("live"),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Debug("client connected", logpkg.Int("clients", h.ClientCount()))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client disconnected", logpkg.Int("clients", h.ClientCount()))

		case e := <-h.broadcast:
			data, err := json.Marshal(Event{Type: "entry", Entry: &e})
			if err != nil {
				h.logger.Warn("marshal entry", logpkg.Err(err))
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				if !c.wants(e) {
					continue
				}
				select {
				case c.send <- data:
				default:
					// slow consumer
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues e for broadcast. It never blocks; entries are dropped when
// the hub is saturated.
func (h *Hub) Publish(e entry.Entry) {
	select {
	case h.broadcast <- e:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the connection and registers the client. The
// errors, no_lifecycle and non_main query flags seed its filter set.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	filters := ParseFilters(r.URL.Query().Get("errors"), r.URL.Query().Get("no_lifecycle"), r.URL.Query().Get("non_main"))
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", logpkg.Err(err))
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 256), filters: filters}
	hello, _ := json.Marshal(Event{Type: "ready"})
	c.send <- hello
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// ParseFilters builds a FilterSet from "1"/"true" flags.
func ParseFilters(errorsOnly, noLifecycle, nonMain string) query.FilterSet {
	var f query.FilterSet
	if parseBool(errorsOnly) {
		f |= query.OnlyErrors
	}
	if parseBool(noLifecycle) {
		f |= query.NotLifecycle
	}
	if parseBool(nonMain) {
		f |= query.NonMainThread
	}
	return f
}

func parseBool(s string) bool { return s == "true" || s == "1" }

func (c *Client) wants(e entry.Entry) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.Match(e)
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("read error", logpkg.Err(err))
			}
			return
		}
		c.handleCommand(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) handleCommand(message []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return
	}
	if cmd.Type != "filter" {
		return
	}
	var f query.FilterSet
	if cmd.Errors {
		f |= query.OnlyErrors
	}
	if cmd.NoLifecycle {
		f |= query.NotLifecycle
	}
	if cmd.NonMain {
		f |= query.NonMainThread
	}
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
}
