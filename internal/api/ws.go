package api

import (
	"net/http"
	"sync"
	"time"

	"skillstreak/internal/service"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const notificationBuffer = 16

// Hub fans notifications out to connected clients, one buffered channel per
// user. Publish never blocks: a slow consumer drops events.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[chan service.Notification]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[chan service.Notification]struct{})}
}

func (h *Hub) Publish(userID uuid.UUID, n service.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients[userID] {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *Hub) subscribe(userID uuid.UUID) chan service.Notification {
	ch := make(chan service.Notification, notificationBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[chan service.Notification]struct{})
	}
	h.clients[userID][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(userID uuid.UUID, ch chan service.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients[userID], ch)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

type wsRoutes struct {
	hub *Hub
}

func NewWSRoutes(handler *gin.RouterGroup, hub *Hub, a *auth.JWTAuth) {
	r := &wsRoutes{hub: hub}
	h := handler.Group("/ws")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/", r.handleWebSocket)
	}
}

func (r *wsRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	notifications := r.hub.subscribe(userID)
	defer r.hub.unsubscribe(userID, notifications)
	defer conn.Close()

	done := make(chan struct{})

	// drain reads so close frames and pings are processed
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case n := <-notifications:
			payload, err := json.Marshal(n)
			if err != nil {
				log.Error("failed to marshal notification", zap.Error(err))
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("websocket write failed",
					zap.String("user_id", userID.String()),
					zap.Error(err))
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
