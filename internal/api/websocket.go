package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const maxWSConnectionsPerIP = 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub broadcasts one SnapshotDTO per dispatched Redraw event to
// every subscribed browser: register/unregister/broadcast channels
// guarding a client map, plus per-IP connection limiting.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	limiter    *WebSocketConnLimiter
	log        *logrus.Entry
}

func NewWebSocketHub(log *logrus.Entry) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		limiter:    NewWebSocketConnLimiter(maxWSConnectionsPerIP),
		log:        log,
	}
}

// Run drains the hub's channels until stop is closed. Intended to run on
// its own goroutine for the lifetime of the server.
func (h *WebSocketHub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			n := len(h.clients)
			h.mu.Unlock()
			UpdateWSConnections(n)
		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.limiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			UpdateWSConnections(n)
		case message := <-h.broadcast:
			h.mu.RLock()
			for conn, client := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					go func(c *websocket.Conn) { h.unregister <- c }(conn)
					_ = client
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot serializes snap and enqueues it for every subscriber.
// Non-blocking: if the broadcast buffer is full, the frame is dropped
// rather than stalling the simulation goroutine.
func (h *WebSocketHub) BroadcastSnapshot(dto SnapshotDTO) {
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount reports the number of currently connected subscribers.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and registers the connection,
// subject to the per-IP connection cap.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)
	if !h.limiter.Allow(ip) {
		connectionsRejected.WithLabelValues("ws_ip_limit").Inc()
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.limiter.Release(ip)
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
