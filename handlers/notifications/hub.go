package notifications

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"))
	c.conn.Close()
}

// Hub tracks live notification sockets. A user may have several tabs open.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]map[*client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) snapshot(userID uuid.UUID) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		out = append(out, c)
	}
	return out
}

// Connections returns how many sockets userID has open.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Send writes v to every socket of userID. Failed sockets are dropped.
func (h *Hub) Send(userID uuid.UUID, v interface{}) {
	clients := h.snapshot(userID)
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode push", zap.Error(err))
		return
	}

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("Dropping notification socket", zap.String("user_id", userID.String()), zap.Error(err))
			h.unregister(userID, c)
			c.conn.Close()
		}
	}
}

// CloseUser disconnects every socket of userID.
func (h *Hub) CloseUser(userID uuid.UUID) {
	h.mu.Lock()
	clients := h.clients[userID]
	delete(h.clients, userID)
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

// CloseAll disconnects every socket; used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[uuid.UUID]map[*client]struct{})
	h.mu.Unlock()

	for _, clients := range all {
		for c := range clients {
			c.close()
		}
	}
}
