package handlers

import (
	"net/http"

	"resumehub/internal/cache"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	cache *cache.Client
}

func NewHealthHandler(base *BaseHandler, cacheClient *cache.Client) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		cache:       cacheClient,
	}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/health/ready", h.Ready)
}

// Health - liveness-проверка, без обращений к зависимостям
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready - readiness-проверка: база и кэш должны отвечать
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	db := h.GetDB(c)
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
