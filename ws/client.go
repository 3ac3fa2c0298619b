package ws

import (
	"context"
	"encoding/json"
	"sync"

	"resumehub/internal/logger"
	"resumehub/internal/services"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"

	"github.com/gorilla/websocket"
)

// IncomingMessage - входящий кадр от клиента.
type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// OutgoingMessage - исходящий кадр клиенту.
type OutgoingMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type Client struct {
	UserID string
	conn   *websocket.Conn
	send   chan any
	ctx    context.Context

	mu     sync.Mutex
	closed bool

	manager       *Manager
	chatService   services.ChatService
	resumeService services.ResumeService
}

// enqueue кладет сообщение в очередь отправки без блокировки.
// false - клиент уже закрыт или очередь переполнена.
func (c *Client) enqueue(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend закрывает очередь отправки ровно один раз. После этого
// enqueue возвращает false вместо паники на закрытом канале.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read error", "user_id", c.UserID, "error", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message format")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			logger.Debug("WebSocket write error", "user_id", c.UserID, "error", err)
			break
		}
	}
}

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {

	case "chat_message":
		var payload struct {
			SessionID string `json:"session_id"`
			Content   string `json:"content"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid chat_message payload")
			return
		}
		if payload.SessionID == "" || payload.Content == "" {
			c.sendError("session_id and content are required")
			return
		}

		// Эхо пользовательского сообщения на остальные вкладки
		c.manager.SendToUser(c.UserID, OutgoingMessage{Type: "user_message", Data: payload})

		reply, err := c.chatService.SendMessage(c.ctx, c.UserID, payload.SessionID, payload.Content)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.manager.SendToUser(c.UserID, OutgoingMessage{Type: "assistant_message", Data: reply})

	case "typing":
		var payload struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		c.manager.SendToUser(c.UserID, OutgoingMessage{Type: "typing", Data: payload})

	case "set_resume":
		var payload struct {
			SessionID string  `json:"session_id"`
			ResumeID  *string `json:"resume_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid set_resume payload")
			return
		}
		if err := c.chatService.SetResume(c.ctx, c.UserID, payload.SessionID, payload.ResumeID); err != nil {
			c.sendServiceError(err)
			return
		}
		c.enqueue(OutgoingMessage{Type: "resume_set", Data: payload})

	case "optimize":
		var payload struct {
			ResumeID string              `json:"resume_id"`
			Request  dto.OptimizeRequest `json:"request"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid optimize payload")
			return
		}
		result, err := c.resumeService.Optimize(c.ctx, c.UserID, payload.ResumeID, &payload.Request)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.enqueue(OutgoingMessage{Type: "optimization_result", Data: result})

	case "job_match":
		var payload struct {
			ResumeID string              `json:"resume_id"`
			Request  dto.JobMatchRequest `json:"request"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid job_match payload")
			return
		}
		result, err := c.resumeService.JobMatch(c.UserID, payload.ResumeID, &payload.Request)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.enqueue(OutgoingMessage{Type: "job_match_result", Data: result})

	case "close_session":
		var payload struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid close_session payload")
			return
		}
		if err := c.chatService.CloseSession(c.ctx, c.UserID, payload.SessionID); err != nil {
			c.sendServiceError(err)
			return
		}
		c.manager.SendToUser(c.UserID, OutgoingMessage{Type: "session_closed", Data: payload})

	default:
		c.sendError("unknown action: " + msg.Action)
	}
}

func (c *Client) sendError(message string) {
	c.enqueue(OutgoingMessage{Type: "error", Data: map[string]any{"message": message}})
}

func (c *Client) sendServiceError(err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.enqueue(OutgoingMessage{Type: "error", Data: map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		}})
		return
	}
	logger.Error("WebSocket action failed", "user_id", c.UserID, "error", err)
	c.enqueue(OutgoingMessage{Type: "error", Data: map[string]any{"message": "internal error"}})
}
