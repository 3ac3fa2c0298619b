package handlers

import (
	"net/http"

	"resumehub/internal/services"
	"resumehub/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

// RegisterRoutes регистрирует REST-маршруты чата (группа уже защищена AuthMiddleware).
// Потоковая доставка сообщений идет через /ws/chat, здесь — управление сессиями.
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	{
		chat.POST("/sessions", h.CreateSession)
		chat.GET("/sessions", h.ListSessions)
		chat.GET("/sessions/:id", h.GetHistory)
		chat.POST("/sessions/:id/messages", h.SendMessage)
		chat.PUT("/sessions/:id/resume", h.SetResume)
		chat.PUT("/sessions/:id/status", h.UpdateStatus)
		chat.POST("/sessions/:id/close", h.CloseSession)
		chat.DELETE("/sessions/:id", h.DeleteSession)
	}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.chatService.CreateSession(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, perPage := ParsePagination(c)

	sessions, total, err := h.chatService.ListSessions(userID, page, perPage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":  sessions,
		"total":     total,
		"page":      page,
		"page_size": perPage,
	})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.chatService.GetHistory(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	reply, err := h.chatService.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

type setSessionResumeRequest struct {
	ResumeID *string `json:"resume_id" validate:"omitempty,uuid"`
}

func (h *ChatHandler) SetResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req setSessionResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.chatService.SetResume(c.Request.Context(), userID, c.Param("id"), req.ResumeID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session resume updated",
	})
}

func (h *ChatHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSessionStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.chatService.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session status updated",
	})
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted",
	})
}

func (h *ChatHandler) CloseSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.CloseSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed",
	})
}
