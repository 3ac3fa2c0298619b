package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

// tierKeyLimits - лимиты API-ключей по тарифу: запросов в минуту и в
// месяц. Production-ключи получают пятикратный лимит (кроме free).
var tierKeyLimits = map[models.SubscriptionTier]struct {
	PerMinute int
	PerMonth  int
}{
	models.TierFree:       {PerMinute: 10, PerMonth: 1_000},
	models.TierPro:        {PerMinute: 60, PerMonth: 50_000},
	models.TierEnterprise: {PerMinute: 600, PerMonth: 1_000_000},
}

const keyPrefixLen = 8

type APIKeyService interface {
	Create(userID string, req *dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error)
	List(userID string) ([]dto.APIKeyResponse, error)
	Update(userID, keyID string, req *dto.UpdateAPIKeyRequest) (*dto.APIKeyResponse, error)
	Revoke(userID, keyID string) error
	Delete(userID, keyID string) error
	Authenticate(rawKey string) (*models.APIKey, error)
	RecordUsage(keyID string) error
}

type APIKeyServiceImpl struct {
	keyRepo  repositories.APIKeyRepository
	userRepo repositories.UserRepository
}

func NewAPIKeyService(keyRepo repositories.APIKeyRepository, userRepo repositories.UserRepository) APIKeyService {
	return &APIKeyServiceImpl{keyRepo: keyRepo, userRepo: userRepo}
}

// Create выпускает ключ вида "rh_<64 hex>". Открытый ключ возвращается
// один раз, в базе хранится только sha256-хеш.
func (s *APIKeyServiceImpl) Create(userID string, req *dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("apikey", "User not found")
	}

	limits := tierKeyLimits[user.Tier]
	if req.Type == models.APIKeyTypeProduction && user.Tier != models.TierFree {
		limits.PerMinute *= 5
		limits.PerMonth *= 5
	}

	rawKey, err := generateRawKey()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := time.Now().AddDate(0, 0, req.ExpiresIn)
		expiresAt = &t
	}

	key := &models.APIKey{
		UserID:       userID,
		Name:         req.Name,
		KeyHash:      hashKey(rawKey),
		KeyPrefix:    rawKey[:keyPrefixLen],
		Type:         req.Type,
		RateLimit:    limits.PerMinute,
		MonthlyLimit: limits.PerMonth,
		IsActive:     true,
		ExpiresAt:    expiresAt,
	}
	if err := s.keyRepo.Create(key); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CreateAPIKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       rawKey,
		KeyPrefix: key.KeyPrefix,
		Type:      key.Type,
		ExpiresAt: expiresAt,
	}, nil
}

func generateRawKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "rh_" + hex.EncodeToString(buf), nil
}

func hashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func (s *APIKeyServiceImpl) List(userID string) ([]dto.APIKeyResponse, error) {
	keys, err := s.keyRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.APIKeyResponse, 0, len(keys))
	for i := range keys {
		result = append(result, dto.APIKeyToResponse(&keys[i]))
	}
	return result, nil
}

// getOwned возвращает ключ только его владельцу.
func (s *APIKeyServiceImpl) getOwned(userID, keyID string) (*models.APIKey, error) {
	key, err := s.keyRepo.FindByID(keyID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("apikey", "API key not found")
	}
	if key.UserID != userID {
		return nil, apperrors.NewNotFoundError("apikey", "API key not found")
	}
	return key, nil
}

func (s *APIKeyServiceImpl) Update(userID, keyID string, req *dto.UpdateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	key, err := s.getOwned(userID, keyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		key.Name = *req.Name
	}
	if err := s.keyRepo.Update(key); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.APIKeyToResponse(key)
	return &resp, nil
}

func (s *APIKeyServiceImpl) Revoke(userID, keyID string) error {
	if _, err := s.getOwned(userID, keyID); err != nil {
		return err
	}
	if err := s.keyRepo.Revoke(keyID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *APIKeyServiceImpl) Delete(userID, keyID string) error {
	if _, err := s.getOwned(userID, keyID); err != nil {
		return err
	}
	if err := s.keyRepo.Delete(keyID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Authenticate проверяет ключ: активность, срок действия и месячный
// лимит. Возвращает модель ключа для middleware.
func (s *APIKeyServiceImpl) Authenticate(rawKey string) (*models.APIKey, error) {
	key, err := s.keyRepo.FindByKeyHash(hashKey(rawKey))
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid API key")
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.NewUnauthorizedError("API key expired")
	}
	if key.MonthlyLimit > 0 && key.MonthlyUsage >= int64(key.MonthlyLimit) {
		return nil, apperrors.NewRateLimitedError("apikey",
			fmt.Sprintf("Monthly limit of %d requests exceeded", key.MonthlyLimit))
	}
	return key, nil
}

func (s *APIKeyServiceImpl) RecordUsage(keyID string) error {
	return s.keyRepo.IncrementUsage(keyID)
}
