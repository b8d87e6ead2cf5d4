// Package stream broadcasts a live feed of collapse events to any
// number of WebSocket observers, so a long NWFC run can be watched as
// it happens instead of only inspected after Solve returns. Solvers
// never import this package: they accept a plain OnCollapse hook, and
// a Hub's OnCollapse method satisfies that hook's signature directly.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one JSON message broadcast to every connected observer.
type Event struct {
	Type   string `json:"type"` // "collapse" or "done"
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
	TileID int    `json:"tile_id,omitempty"`
	Solved bool   `json:"solved,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans a solve's events out to every currently connected observer.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub returns an empty Hub ready to accept connections.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the request to a WebSocket and registers the
// connection as an observer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain and discard any client-sent messages until the connection
	// closes, so ReadMessage's pong/close-frame handling keeps running.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast writes e to every connected observer, dropping any
// connection that errors on write.
func (h *Hub) Broadcast(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// OnCollapse satisfies the solver OnCollapse hook signature, broadcasting
// a collapse event for every tile assignment as it happens.
func (h *Hub) OnCollapse(row, col, tileID int) {
	h.Broadcast(Event{Type: "collapse", Row: row, Col: col, TileID: tileID})
}

// Done broadcasts the run's terminal outcome and closes every connected
// observer.
func (h *Hub) Done(solved bool) {
	h.Broadcast(Event{Type: "done", Solved: solved})

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
