package handlers

import (
	"net/http"

	"resumehub/internal/services"
	"resumehub/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

// RegisterPublicRoutes регистрирует маршруты, не требующие аутентификации
func (h *SubscriptionHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.ListPlans)
	// Платежный провайдер подписывает запрос, пользовательский токен не нужен
	rg.POST("/webhooks/payment", h.PaymentWebhook)
}

// RegisterRoutes регистрирует маршруты подписок (группа уже защищена AuthMiddleware)
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/subscriptions")
	{
		subs.GET("/current", h.GetCurrent)
		subs.POST("", h.Subscribe)
		subs.DELETE("/current", h.Cancel)
		subs.GET("/usage", h.GetUsage)
	}
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": plans,
	})
}

func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.subscriptionService.GetCurrent(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.subscriptionService.Subscribe(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription cancelled",
	})
}

func (h *SubscriptionHandler) GetUsage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.subscriptionService.GetUsage(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) PaymentWebhook(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.subscriptionService.HandlePaymentWebhook(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Webhook processed",
	})
}
