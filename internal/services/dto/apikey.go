package dto

import (
	"time"

	"resumehub/internal/models"
)

// CreateAPIKeyRequest - выпуск нового API-ключа
type CreateAPIKeyRequest struct {
	Name      string            `json:"name" binding:"required,max=100"`
	Type      models.APIKeyType `json:"type" binding:"required,oneof=development production"`
	ExpiresIn int               `json:"expires_in_days" binding:"omitempty,min=1,max=365"`
}

// CreateAPIKeyResponse - ответ с открытым ключом. Ключ показывается
// только один раз, дальше хранится лишь его хеш.
type CreateAPIKeyResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Key       string            `json:"key"`
	KeyPrefix string            `json:"key_prefix"`
	Type      models.APIKeyType `json:"type"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// UpdateAPIKeyRequest - переименование ключа
type UpdateAPIKeyRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,max=100"`
}

// APIKeyResponse - ключ в списках (без секрета)
type APIKeyResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	KeyPrefix    string            `json:"key_prefix"`
	Type         models.APIKeyType `json:"type"`
	RateLimit    int               `json:"rate_limit"`
	MonthlyLimit int               `json:"monthly_limit"`
	MonthlyUsage int64             `json:"monthly_usage"`
	IsActive     bool              `json:"is_active"`
	LastUsedAt   *time.Time        `json:"last_used_at,omitempty"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// APIKeyToResponse конвертирует модель в ответ API.
func APIKeyToResponse(key *models.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:           key.ID,
		Name:         key.Name,
		KeyPrefix:    key.KeyPrefix,
		Type:         key.Type,
		RateLimit:    key.RateLimit,
		MonthlyLimit: key.MonthlyLimit,
		MonthlyUsage: key.MonthlyUsage,
		IsActive:     key.IsActive,
		LastUsedAt:   key.LastUsedAt,
		ExpiresAt:    key.ExpiresAt,
		CreatedAt:    key.CreatedAt,
	}
}
