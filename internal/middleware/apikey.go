package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/services"
	"resumehub/internal/services/dto"
	"resumehub/pkg/contextkeys"
)

// keyRateLimiters - лимитеры на ключ: у каждого API-ключа свой лимит
// запросов в минуту из его тарифа.
type keyRateLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func (k *keyRateLimiters) get(keyID string, perMinute int) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.limiters[keyID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
		k.limiters[keyID] = l
	}
	return l
}

// APIKeyMiddleware - аутентификация по заголовку X-API-Key с проверкой
// минутного и месячного лимитов ключа. Каждый запрос учитывается в
// аналитике владельца ключа.
func APIKeyMiddleware(keyService services.APIKeyService, analytics services.AnalyticsService) gin.HandlerFunc {
	limiters := &keyRateLimiters{limiters: make(map[string]*rate.Limiter)}

	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-API-Key header missing"})
			return
		}

		key, err := keyService.Authenticate(rawKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or exhausted API key"})
			return
		}

		if !limiters.get(key.ID, key.RateLimit).Allow() {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "API key rate limit exceeded"})
			return
		}

		if err := keyService.RecordUsage(key.ID); err != nil {
			logger.WithError(err).Warn("Failed to record API key usage", "key_id", key.ID)
		}
		if analytics != nil {
			if err := analytics.TrackEvent(key.UserID, &dto.TrackEventRequest{
				EventType: "api_request",
				Resource:  c.FullPath(),
			}); err != nil {
				logger.WithError(err).Warn("Failed to track API request", "key_id", key.ID)
			}
		}

		c.Set("userID", key.UserID)
		c.Set("role", models.UserRoleUser)
		c.Set(string(contextkeys.APIKeyContextKey), key)
		c.Next()
	}
}

// GetAPIKey извлекает аутентифицированный API-ключ из контекста.
func GetAPIKey(c *gin.Context) *models.APIKey {
	val, exists := c.Get(string(contextkeys.APIKeyContextKey))
	if !exists {
		return nil
	}
	key, ok := val.(*models.APIKey)
	if !ok {
		return nil
	}
	return key
}
