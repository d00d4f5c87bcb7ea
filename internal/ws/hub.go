package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Notification types emitted over the hub.
const (
	NotificationSessionCreated       = "session_created"
	NotificationSessionVoted         = "session_voted"
	NotificationSessionExcused       = "session_excused"
	NotificationSessionStatusChanged = "session_status_changed"
	NotificationSessionSettled       = "session_settled"
	NotificationSessionDeleted       = "session_deleted"
)

type Notification struct {
	Type         string    `json:"type"`
	SessionID    uint      `json:"session_id"`
	SessionTitle string    `json:"session_title"`
	ActorID      uint      `json:"actor_id"`
	ActorName    string    `json:"actor_name"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewNotification(typ string, sessionID uint, sessionTitle string, actorID uint, actorName, message string) Notification {
	return Notification{
		Type:         typ,
		SessionID:    sessionID,
		SessionTitle: sessionTitle,
		ActorID:      actorID,
		ActorName:    actorName,
		Message:      message,
		Timestamp:    time.Now(),
	}
}

// Hub is the single process-wide notification fan-out. Delivery is
// fire-and-forget: a failed write drops the client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]uint // conn -> user id (0 = unauthenticated)
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

func (h *Hub) AddClient(conn *websocket.Conn, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = userID
	log.Debugf("ws: client connected (user %d, total %d)", userID, len(h.clients))
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		log.Debugf("ws: client disconnected (total %d)", len(h.clients))
	}
}

// Broadcast sends a notification to every connected client.
func (h *Hub) Broadcast(n Notification) {
	h.send(n, func(uint) bool { return true })
}

// SendToUser sends a notification to every connection of one user.
func (h *Hub) SendToUser(userID uint, n Notification) {
	h.send(n, func(id uint) bool { return id == userID })
}

func (h *Hub) send(n Notification, match func(userID uint) bool) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Errorf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, userID := range h.clients {
		if !match(userID) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warnf("ws: write error: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
