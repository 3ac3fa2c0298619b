package handlers

import (
	"net/http"

	"resumehub/internal/services"
	"resumehub/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type APIKeyHandler struct {
	*BaseHandler
	keyService services.APIKeyService
}

func NewAPIKeyHandler(base *BaseHandler, keyService services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{
		BaseHandler: base,
		keyService:  keyService,
	}
}

// RegisterRoutes регистрирует маршруты API-ключей (группа уже защищена AuthMiddleware)
func (h *APIKeyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	keys := rg.Group("/api-keys")
	{
		keys.POST("", h.Create)
		keys.GET("", h.List)
		keys.PUT("/:id", h.Update)
		keys.POST("/:id/revoke", h.Revoke)
		keys.DELETE("/:id", h.Delete)
	}
}

func (h *APIKeyHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.keyService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *APIKeyHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	keys, err := h.keyService.List(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"api_keys": keys,
	})
}

func (h *APIKeyHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAPIKeyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.keyService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.keyService.Revoke(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key revoked",
	})
}

func (h *APIKeyHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.keyService.Delete(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key deleted",
	})
}
