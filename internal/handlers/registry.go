package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ResumeHandler       *ResumeHandler
	ChatHandler         *ChatHandler
	SubscriptionHandler *SubscriptionHandler
	APIKeyHandler       *APIKeyHandler
	TeamHandler         *TeamHandler
	AnalyticsHandler    *AnalyticsHandler
	HealthHandler       *HealthHandler
}
