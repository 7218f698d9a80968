// Package feed pushes new-recipe events to followers over WebSocket.
package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const EventRecipePublished = "recipe_published"

// Event is the envelope written to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Observer receives hub lifecycle callbacks; metrics implement it.
type Observer interface {
	FeedConnected()
	FeedDisconnected()
	FeedEventSent()
}

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks every open connection per user. A user may have several tabs open.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]map[*connection]struct{}
	observer    Observer
}

func NewHub(observer Observer) *Hub {
	return &Hub{
		connections: make(map[int64]map[*connection]struct{}),
		observer:    observer,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.userID] = set
	}
	set[c] = struct{}{}
	if h.observer != nil {
		h.observer.FeedConnected()
	}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.connections, c.userID)
	}
	close(c.send)
	if h.observer != nil {
		h.observer.FeedDisconnected()
	}
}

// SendToUsers queues event for every connection of the given users and returns how
// many connections accepted it. Slow clients with a full buffer are skipped.
func (h *Hub) SendToUsers(userIDs []int64, event *Event) int {
	if len(userIDs) == 0 {
		return 0
	}
	data, err := json.Marshal(event)
	if err != nil {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, id := range userIDs {
		for c := range h.connections[id] {
			select {
			case c.send <- data:
				sent++
				if h.observer != nil {
					h.observer.FeedEventSent()
				}
			default:
			}
		}
	}
	return sent
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID]) > 0
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close disconnects every client, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.connections {
		for c := range set {
			close(c.send)
			if h.observer != nil {
				h.observer.FeedDisconnected()
			}
		}
		delete(h.connections, userID)
	}
}

// Serve registers conn for userID and blocks until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, userID int64) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump only drains control frames; clients have nothing to say on this channel.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
