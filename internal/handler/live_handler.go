package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/roomkit/roombook/internal/broker"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// LiveHandler pushes event change notices to connected calendar
// clients. The feed is one-way: clients never send application
// messages, they refetch through the API when a notice arrives.
type LiveHandler struct {
	source  broker.Broker
	clients map[*websocket.Conn]struct{}
	mu      sync.RWMutex
}

func NewLiveHandler(source broker.Broker) *LiveHandler {
	return &LiveHandler{
		source:  source,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run consumes the broker subscription and fans each notice out to
// every connected client. Call once, in its own goroutine.
func (h *LiveHandler) Run() {
	notices, err := h.source.Subscribe()
	if err != nil {
		logger.Log.Error("Live feed subscription failed", zap.Error(err))
		return
	}

	for notice := range notices {
		h.broadcast(notice)
	}
}

// Serve upgrades the connection and keeps it registered until the
// client goes away. Requires a signed-in session.
// GET /api/ws
func (h *LiveHandler) Serve(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.Log.Info("Live feed client connected",
		zap.String("user_id", user.ID.String()),
		zap.Int("total", total),
	)

	defer h.removeClient(conn)
	h.keepAlive(conn)
}

// keepAlive reads (discarding anything the client sends) so pings and
// connection drops are noticed.
func (h *LiveHandler) keepAlive(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go h.ping(conn, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("Live feed read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveHandler) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *LiveHandler) broadcast(notice broker.EventNotice) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(notice); err != nil {
			logger.Log.Warn("Failed to push notice to client", zap.Error(err))
			// keepAlive notices the broken connection and cleans up
		}
	}
}

func (h *LiveHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		logger.Log.Info("Live feed client disconnected", zap.Int("total", len(h.clients)))
	}
}
