package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"BistSentinel/internal/model"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one websocket push.
type Message struct {
	Type string `json:"type"` // scan | alert
	Data any    `json:"data"`
}

// Hub fans scan reports and alert events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	initial func() any
}

// NewHub creates a hub. initial, if set, provides the snapshot sent on connect.
func NewHub(initial func() any) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{}), initial: initial}
}

// Handle upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}

	h.mu.Lock()
	if h.initial != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Message{Type: "scan", Data: h.initial()}); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("[INFO] websocket client connected (%d total)", n)

	// Drain reads so close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Broadcast sends msg to every client. Clients that fail to receive are dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[WARN] websocket write: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OnScan pushes a finished scan followed by each fired alert.
func (h *Hub) OnScan(report *model.ScanReport, events []model.AlertEvent) {
	h.Broadcast(Message{Type: "scan", Data: report})
	for _, ev := range events {
		h.Broadcast(Message{Type: "alert", Data: ev})
	}
}
