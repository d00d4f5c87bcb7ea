package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/Masaicker/GamePact/internal/services"
	"github.com/Masaicker/GamePact/internal/ws"
)

type WSHandler struct {
	hub         *ws.Hub
	authService *services.AuthService
}

func NewWSHandler(hub *ws.Hub, authService *services.AuthService) *WSHandler {
	return &WSHandler{hub: hub, authService: authService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for live notifications
// @Description  Connect to receive session events; pass a token query param to also get user-targeted messages
// @Tags         websocket
// @Param        token query string false "JWT"
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// The token is optional: anonymous clients still get broadcasts.
	var userID uint
	if token := c.Query("token"); token != "" {
		if claims, err := h.authService.ValidateToken(token); err == nil {
			userID = claims.UserID
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddClient(conn, userID)
	defer h.hub.RemoveClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
