package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email             string `gorm:"uniqueIndex;not null"`
	PasswordHash      string `gorm:"not null"`
	FullName          string
	Role              UserRole         `gorm:"type:varchar(20);not null;default:'user'"`
	Status            UserStatus       `gorm:"type:varchar(20);default:'pending'"`
	Tier              SubscriptionTier `gorm:"type:varchar(20);default:'free'"`
	IsVerified        bool             `gorm:"default:false"`
	VerificationToken string
	ResetToken        string
	ResetTokenExp     *time.Time
	Preferences       datatypes.JSON `gorm:"type:jsonb"`
	LastLoginAt       *time.Time
	LoginCount        int `gorm:"default:0"`

	// Relations
	Resumes       []Resume          `gorm:"foreignKey:UserID"`
	ChatSessions  []ChatSession     `gorm:"foreignKey:UserID"`
	APIKeys       []APIKey          `gorm:"foreignKey:UserID"`
	Subscription  *UserSubscription `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken    `gorm:"foreignKey:UserID"`
	Memberships   []TeamMember      `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// LoginAttempt - журнал попыток входа, используется для lockout
type LoginAttempt struct {
	BaseModel
	Email         string `gorm:"not null;index"`
	IPAddress     string `gorm:"not null"`
	UserAgent     string
	Success       bool `gorm:"default:false"`
	FailureReason string
}
