package repositories

import (
	"errors"
	"time"

	"resumehub/internal/models"

	"gorm.io/gorm"
)

var ErrAPIKeyNotFound = errors.New("api key not found")

type APIKeyRepository interface {
	Create(key *models.APIKey) error
	FindByID(id string) (*models.APIKey, error)
	FindByKeyHash(hash string) (*models.APIKey, error)
	FindByUserID(userID string) ([]models.APIKey, error)
	Update(key *models.APIKey) error
	IncrementUsage(id string) error
	Revoke(id string) error
	Delete(id string) error
	ResetMonthlyUsage() (int64, error)
}

type APIKeyRepositoryImpl struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &APIKeyRepositoryImpl{db: db}
}

func (r *APIKeyRepositoryImpl) Create(key *models.APIKey) error {
	return r.db.Create(key).Error
}

func (r *APIKeyRepositoryImpl) FindByID(id string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.db.First(&key, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepositoryImpl) FindByKeyHash(hash string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.db.First(&key, "key_hash = ? AND is_active = ?", hash, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepositoryImpl) FindByUserID(userID string) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

func (r *APIKeyRepositoryImpl) Update(key *models.APIKey) error {
	return r.db.Save(key).Error
}

func (r *APIKeyRepositoryImpl) IncrementUsage(id string) error {
	return r.db.Model(&models.APIKey{}).Where("id = ?", id).Updates(map[string]interface{}{
		"usage_count":   gorm.Expr("usage_count + 1"),
		"monthly_usage": gorm.Expr("monthly_usage + 1"),
		"last_used_at":  time.Now(),
	}).Error
}

func (r *APIKeyRepositoryImpl) Revoke(id string) error {
	result := r.db.Model(&models.APIKey{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

func (r *APIKeyRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.APIKey{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// ResetMonthlyUsage обнуляет месячные счетчики всех ключей. Вызывается
// воркером в начале расчетного периода.
func (r *APIKeyRepositoryImpl) ResetMonthlyUsage() (int64, error) {
	result := r.db.Model(&models.APIKey{}).Where("monthly_usage > 0").Updates(map[string]interface{}{
		"monthly_usage": 0,
		"updated_at":    time.Now(),
	})
	return result.RowsAffected, result.Error
}
