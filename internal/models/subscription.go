package models

import (
	"gorm.io/datatypes"
	"time"
)

type SubscriptionPlan struct {
	BaseModel
	Name     string           `gorm:"not null"`
	Tier     SubscriptionTier `gorm:"type:varchar(20);uniqueIndex;not null"`
	Price    float64          `gorm:"not null"`
	Currency string           `gorm:"default:'USD'"`
	Interval string           `gorm:"not null"`   // "monthly", "yearly"
	Features datatypes.JSON   `gorm:"type:jsonb"` // {"white_label": true, ...}
	Limits   datatypes.JSON   `gorm:"type:jsonb"` // {"optimizations": 3, "resumes": 5, ...}
	IsActive bool             `gorm:"default:true"`
}

type UserSubscription struct {
	BaseModel
	UserID       string             `gorm:"not null;index"`
	PlanID       string             `gorm:"not null;index"`
	Status       SubscriptionStatus `gorm:"default:'active'"`
	CurrentUsage datatypes.JSON     `gorm:"type:jsonb"` // {"optimizations": 2, "api_calls": 140}
	StartDate    time.Time
	EndDate      *time.Time
	AutoRenew    bool `gorm:"default:true"`
	CancelledAt  *time.Time

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID"`
}

type PaymentTransaction struct {
	BaseModel
	UserID         string `gorm:"not null;index"`
	SubscriptionID string `gorm:"not null;index"`
	Amount         float64
	Currency       string        `gorm:"default:'USD'"`
	Status         PaymentStatus `gorm:"default:'pending'"`
	InvoiceID      string        `gorm:"uniqueIndex"` // ID от платежного провайдера
	PaidAt         *time.Time

	// Relations
	Subscription UserSubscription `gorm:"foreignKey:SubscriptionID"`
}
