package dto

import (
	"time"

	"resumehub/internal/models"
)

// CreateSessionRequest - создание чат-сессии
type CreateSessionRequest struct {
	ResumeID *string `json:"resume_id,omitempty" binding:"omitempty,uuid"`
}

// SendMessageRequest - сообщение пользователя в сессию
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// UpdateSessionStatusRequest - смена статуса сессии
type UpdateSessionStatusRequest struct {
	Status models.ChatSessionStatus `json:"status" binding:"required,oneof=active completed abandoned"`
}

// SessionResponse - чат-сессия в ответах API
type SessionResponse struct {
	ID           string                   `json:"id"`
	SessionID    string                   `json:"session_id"`
	ResumeID     *string                  `json:"resume_id,omitempty"`
	Status       models.ChatSessionStatus `json:"status"`
	MessageCount int64                    `json:"message_count"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ChatMessageResponse - сообщение в ответах API
type ChatMessageResponse struct {
	ID        string             `json:"id"`
	Role      models.MessageRole `json:"role"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
}

// MessageToResponse конвертирует модель сообщения в ответ API.
func MessageToResponse(m *models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// SessionHistoryResponse - сессия с историей сообщений
type SessionHistoryResponse struct {
	Session  SessionResponse       `json:"session"`
	Messages []ChatMessageResponse `json:"messages"`
}

// AssistantReply - ответ ассистента на сообщение пользователя
type AssistantReply struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}
