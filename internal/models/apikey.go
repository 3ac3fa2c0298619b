package models

import "time"

type APIKey struct {
	BaseModel
	UserID       string     `gorm:"not null;index"`
	Name         string     `gorm:"not null"`
	KeyHash      string     `gorm:"uniqueIndex;not null"` // sha256 от plaintext-ключа
	KeyPrefix    string     `gorm:"not null"`             // первые символы для отображения
	Type         APIKeyType `gorm:"type:varchar(20);default:'development'"`
	RateLimit    int        `gorm:"not null"` // запросов в минуту
	MonthlyLimit int        `gorm:"not null"` // запросов в месяц
	UsageCount   int64      `gorm:"default:0"`
	MonthlyUsage int64      `gorm:"default:0"`
	IsActive     bool       `gorm:"default:true"`
	LastUsedAt   *time.Time
	ExpiresAt    *time.Time
}
