package handlers

import (
	"net/http"

	"resumehub/internal/services"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
	teamService      services.TeamService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService, teamService services.TeamService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
		teamService:      teamService,
	}
}

// RegisterRoutes регистрирует маршруты аналитики (группа уже защищена AuthMiddleware)
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.POST("/events", h.TrackEvent)
		analytics.GET("/dashboard", h.UserDashboard)
		analytics.GET("/activity", h.UserActivity)
		analytics.GET("/teams/:id/activity", h.TeamActivity)
	}
}

// RegisterAdminRoutes регистрирует административные маршруты аналитики
func (h *AnalyticsHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics/dashboard", h.AdminDashboard)
}

func (h *AnalyticsHandler) TrackEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TrackEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.analyticsService.TrackEvent(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event recorded",
	})
}

func (h *AnalyticsHandler) UserDashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	from, to, err := ParseQueryDateRange(c, 30)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	response, err := h.analyticsService.GetUserDashboard(userID, from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AnalyticsHandler) UserActivity(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, perPage := ParsePagination(c)

	response, err := h.analyticsService.GetUserActivity(userID, page, perPage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AnalyticsHandler) TeamActivity(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	teamID := c.Param("id")

	// Журнал команды доступен только ее участникам
	if _, err := h.teamService.Get(userID, teamID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	page, perPage := ParsePagination(c)

	response, err := h.analyticsService.GetTeamActivity(teamID, page, perPage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AnalyticsHandler) AdminDashboard(c *gin.Context) {
	from, to, err := ParseQueryDateRange(c, 30)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	response, err := h.analyticsService.GetDashboard(from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
