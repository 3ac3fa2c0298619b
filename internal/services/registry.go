package services

import (
	"resumehub/internal/email"
	"resumehub/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ResumeService       ResumeService
	ChatService         ChatService
	SubscriptionService SubscriptionService
	APIKeyService       APIKeyService
	TeamService         TeamService
	AnalyticsService    AnalyticsService
	EmailService        email.Provider
	Storage             storage.Storage
}
