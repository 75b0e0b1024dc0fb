// Package hub implements the realtime fan-out between admin and shop
// clients: chat relay plus catalog refresh broadcasts.
package hub

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/query"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Role classifies a connection. It is assigned once at connection
// establishment from the endpoint the client hit and never re-derived.
type Role int

const (
	// RolePlain connections receive chat and refresh broadcasts.
	RolePlain Role = iota
	// RoleAdmin connections may trigger a refresh broadcast and are
	// excluded from the broadcast set.
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "plain"
}

// Conn is the subset of *websocket.Conn the hub writes to. Tests substitute
// in-memory fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live realtime session.
type Client struct {
	id   string
	role Role
	conn Conn
}

// NewClient wraps a connection with a fresh id and a fixed role.
func NewClient(role Role, conn Conn) *Client {
	return &Client{id: uuid.NewString(), role: role, conn: conn}
}

// ID returns the client's session id.
func (c *Client) ID() string { return c.id }

// Role returns the client's fixed role.
func (c *Client) Role() Role { return c.role }

type inbound struct {
	from *Client
	data []byte
}

// Metrics is a point-in-time view of hub counters.
type Metrics struct {
	Clients    int64  `json:"clients"`
	Broadcasts uint64 `json:"broadcasts"`
	Reloads    uint64 `json:"reloads"`
	Dropped    uint64 `json:"dropped"`
}

// Hub owns the connection registry and the broadcast loop. All registry
// mutation and iteration happens on the single Run goroutine, so no
// broadcast ever observes the set mid-change.
type Hub struct {
	st   *store.FileStore
	snap *query.Snapshot

	register   chan *Client
	unregister chan *Client
	messages   chan inbound
	refreshed  chan []model.Product
	done       chan struct{}

	clients map[*Client]struct{}

	clientCount atomic.Int64
	broadcasts  atomic.Uint64
	reloads     atomic.Uint64
	dropped     atomic.Uint64
}

// New constructs a Hub over the given store and snapshot.
func New(st *store.FileStore, snap *query.Snapshot) *Hub {
	return &Hub{
		st:         st,
		snap:       snap,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		messages:   make(chan inbound, 64),
		refreshed:  make(chan []model.Product),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processes registrations and messages until the context is cancelled,
// then closes every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				_ = c.conn.Close()
			}
			h.clients = make(map[*Client]struct{})
			h.clientCount.Store(0)
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.clientCount.Store(int64(len(h.clients)))
		case c := <-h.unregister:
			delete(h.clients, c)
			h.clientCount.Store(int64(len(h.clients)))
		case m := <-h.messages:
			h.handleMessage(m)
		case products := <-h.refreshed:
			h.applyRefresh(products)
		}
	}
}

// Wait blocks until Run has returned.
func (h *Hub) Wait() { <-h.done }

// Register adds a client to the registry.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the registry.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Receive hands an inbound payload from a client's read loop to the hub.
func (h *Hub) Receive(c *Client, data []byte) {
	select {
	case h.messages <- inbound{from: c, data: data}:
	case <-h.done:
	}
}

// Refresh installs a fresh product list and rebroadcasts it, as if an admin
// data-changed signal had arrived. Used by the file watcher.
func (h *Hub) Refresh(products []model.Product) {
	select {
	case h.refreshed <- products:
	case <-h.done:
	}
}

// Stats returns the current counter values.
func (h *Hub) Stats() Metrics {
	return Metrics{
		Clients:    h.clientCount.Load(),
		Broadcasts: h.broadcasts.Load(),
		Reloads:    h.reloads.Load(),
		Dropped:    h.dropped.Load(),
	}
}

func (h *Hub) handleMessage(m inbound) {
	var env model.Envelope
	if err := json.Unmarshal(m.data, &env); err != nil {
		h.dropped.Add(1)
		obs.Logger.Warn("ws_malformed_payload", "client_id", m.from.id, "error", err.Error())
		return
	}
	if m.from.role == RoleAdmin && env.Type == "data-changed" {
		products, err := h.st.Load()
		if err != nil {
			obs.Logger.Error("ws_reload_failed", "client_id", m.from.id, "error", err.Error())
			return
		}
		h.applyRefresh(products)
		return
	}
	h.broadcast(model.ChatMessage{
		Type:            "chat-message",
		Sender:          env.Sender,
		Text:            env.Text,
		ServerTimestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Hub) applyRefresh(products []model.Product) {
	h.snap.Replace(products)
	h.reloads.Add(1)
	h.broadcast(model.DataChanged{Type: "data-changed", Products: products})
}

// broadcast marshals once and writes the same bytes to every plain
// connection. A failed write is logged and skipped; it never aborts
// delivery to the rest.
func (h *Hub) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		obs.Logger.Error("ws_broadcast_marshal_failed", "error", err.Error())
		return
	}
	for c := range h.clients {
		if c.role != RolePlain {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			obs.Logger.Warn("ws_send_failed", "client_id", c.id, "error", err.Error())
		}
	}
	h.broadcasts.Add(1)
}
