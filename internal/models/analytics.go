package models

import (
	"gorm.io/datatypes"
)

// AnalyticsEvent - событие использования (upload, optimize, chat, api_call)
type AnalyticsEvent struct {
	BaseModel
	UserID    string         `gorm:"index"`
	EventType string         `gorm:"not null;index"`
	Resource  string         // имя модели / фичи
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
}

// ActivityLog - аудит действий в командах
type ActivityLog struct {
	BaseModel
	UserID       string  `gorm:"not null;index"`
	TeamID       *string `gorm:"index"`
	Action       string  `gorm:"not null"`
	ResourceType string
	ResourceID   string
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
}
