package repositories

import (
	"errors"
	"time"

	"resumehub/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrPaymentNotFound      = errors.New("payment transaction not found")
)

type SubscriptionRepository interface {
	// Plan operations
	CreatePlan(plan *models.SubscriptionPlan) error
	FindPlanByID(id string) (*models.SubscriptionPlan, error)
	FindPlanByTier(tier models.SubscriptionTier) (*models.SubscriptionPlan, error)
	FindActivePlans() ([]models.SubscriptionPlan, error)

	// Subscription operations
	CreateSubscription(sub *models.UserSubscription) error
	FindSubscriptionByID(id string) (*models.UserSubscription, error)
	FindActiveByUserID(userID string) (*models.UserSubscription, error)
	UpdateSubscription(sub *models.UserSubscription) error
	CancelSubscription(id string) error
	FindOverdueSubscriptions() ([]models.UserSubscription, error)
	ExpireOverdueSubscriptions() (int64, error)

	// Payment operations
	CreatePayment(payment *models.PaymentTransaction) error
	FindPaymentByInvoiceID(invoiceID string) (*models.PaymentTransaction, error)
	UpdatePaymentStatus(id string, status models.PaymentStatus, paidAt *time.Time) error
	FindPaymentsByUserID(userID string, limit, offset int) ([]models.PaymentTransaction, int64, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// Plan operations

func (r *SubscriptionRepositoryImpl) CreatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByTier(tier models.SubscriptionTier) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.First(&plan, "tier = ? AND is_active = ?", tier, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindActivePlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

// Subscription operations

func (r *SubscriptionRepositoryImpl) CreateSubscription(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindSubscriptionByID(id string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByUserID(userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) UpdateSubscription(sub *models.UserSubscription) error {
	result := r.db.Model(sub).Updates(map[string]interface{}{
		"status":        sub.Status,
		"current_usage": sub.CurrentUsage,
		"end_date":      sub.EndDate,
		"auto_renew":    sub.AutoRenew,
		"cancelled_at":  sub.CancelledAt,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) CancelSubscription(id string) error {
	now := time.Now()
	result := r.db.Model(&models.UserSubscription{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.SubscriptionStatusCancelled,
		"auto_renew":   false,
		"cancelled_at": &now,
		"updated_at":   now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// FindOverdueSubscriptions возвращает активные подписки с истекшим сроком.
func (r *SubscriptionRepositoryImpl) FindOverdueSubscriptions() ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, time.Now()).
		Find(&subs).Error
	return subs, err
}

// ExpireOverdueSubscriptions переводит просроченные подписки в expired.
// Возвращает количество затронутых строк.
func (r *SubscriptionRepositoryImpl) ExpireOverdueSubscriptions() (int64, error) {
	result := r.db.Model(&models.UserSubscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, time.Now()).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Payment operations

func (r *SubscriptionRepositoryImpl) CreatePayment(payment *models.PaymentTransaction) error {
	return r.db.Create(payment).Error
}

func (r *SubscriptionRepositoryImpl) FindPaymentByInvoiceID(invoiceID string) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := r.db.First(&payment, "invoice_id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *SubscriptionRepositoryImpl) UpdatePaymentStatus(id string, status models.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	result := r.db.Model(&models.PaymentTransaction{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindPaymentsByUserID(userID string, limit, offset int) ([]models.PaymentTransaction, int64, error) {
	var payments []models.PaymentTransaction
	var total int64

	if err := r.db.Model(&models.PaymentTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, total, err
}
