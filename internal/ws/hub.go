package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is validated by middleware before the upgrade
	},
}

// Client is one browser watching a game's ticket grid
type Client struct {
	conn    *websocket.Conn
	gameKey string
	send    chan []byte
}

// Hub tracks which clients watch which game
type Hub struct {
	rooms map[string]map[*Client]struct{} // gameKey -> clients
	mu    sync.RWMutex
}

// GameHub is the process-wide hub
var GameHub = NewHub()

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.gameKey]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.gameKey] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.gameKey]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.gameKey)
		}
	}
}

// BroadcastToGame sends a message to every client watching gameKey
func (h *Hub) BroadcastToGame(gameKey string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[gameKey] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Send buffer full for a watcher of %s, dropping message", gameKey)
		}
	}
}

// RoomSize returns how many clients watch a game
func (h *Hub) RoomSize(gameKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameKey])
}

// ServeGame upgrades the request and keeps the connection in the game's
// room until it drops. Watchers only receive; inbound frames are drained
// for control handling and discarded.
func (h *Hub) ServeGame(w http.ResponseWriter, r *http.Request, gameKey string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for game %s: %v", gameKey, err)
		return
	}

	client := &Client{conn: conn, gameKey: gameKey, send: make(chan []byte, 16)}
	h.add(client)
	log.Printf("[WS] Watcher joined game %s (room_size=%d)", gameKey, h.RoomSize(gameKey))

	go client.writePump()
	client.readPump(h)
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
