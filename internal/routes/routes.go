package routes

import (
	"resumehub/internal/handlers"
	"resumehub/internal/middleware"
	"resumehub/internal/services"
	"resumehub/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes собирает все группы маршрутов приложения.
func RegisterRoutes(
	r *gin.Engine,
	h *handlers.AppHandlers,
	wsHandler *ws.Handler,
	keyService services.APIKeyService,
	analyticsService services.AnalyticsService,
) {
	v1 := r.Group("/api/v1")

	// Публичные маршруты
	h.HealthHandler.RegisterRoutes(v1)
	h.AuthHandler.RegisterRoutes(v1)
	h.SubscriptionHandler.RegisterPublicRoutes(v1)

	// Маршруты, требующие JWT-аутентификации
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		h.AuthHandler.RegisterProtectedRoutes(protected)
		h.UserHandler.RegisterRoutes(protected)
		h.ResumeHandler.RegisterRoutes(protected)
		h.ChatHandler.RegisterRoutes(protected)
		h.SubscriptionHandler.RegisterRoutes(protected)
		h.APIKeyHandler.RegisterRoutes(protected)
		h.TeamHandler.RegisterRoutes(protected)
		h.AnalyticsHandler.RegisterRoutes(protected)
	}

	// Административные маршруты
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		h.UserHandler.RegisterAdminRoutes(admin)
		h.AnalyticsHandler.RegisterAdminRoutes(admin)
	}

	// Программный доступ по API-ключу (X-API-Key)
	public := r.Group("/api/public/v1")
	public.Use(middleware.APIKeyMiddleware(keyService, analyticsService))
	{
		public.GET("/resumes", h.ResumeHandler.List)
		public.GET("/resumes/:id", h.ResumeHandler.Get)
		public.POST("/resumes", h.ResumeHandler.Upload)
		public.POST("/resumes/:id/analyze", h.ResumeHandler.Analyze)
		public.POST("/resumes/:id/match", h.ResumeHandler.JobMatch)
	}

	// WebSocket: аутентификация по токену в query-параметре
	r.GET("/ws/chat", wsHandler.ServeWS)
}
