package ws

import (
	"context"
	"net/http"

	"resumehub/internal/auth"
	"resumehub/internal/logger"
	"resumehub/internal/middleware"
	"resumehub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	manager       *Manager
	chatService   services.ChatService
	resumeService services.ResumeService
}

func NewHandler(manager *Manager, chatService services.ChatService, resumeService services.ResumeService) *Handler {
	return &Handler{
		manager:       manager,
		chatService:   chatService,
		resumeService: resumeService,
	}
}

// ServeWS апгрейдит HTTP-соединение до WebSocket.
// Браузерный WebSocket API не позволяет задать Authorization-заголовок,
// поэтому токен также принимается query-параметром.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID = claims.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		UserID:        userID,
		conn:          conn,
		send:          make(chan any, 256),
		ctx:           context.Background(),
		manager:       h.manager,
		chatService:   h.chatService,
		resumeService: h.resumeService,
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
