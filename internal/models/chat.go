package models

import (
	"gorm.io/datatypes"
)

type ChatSession struct {
	BaseModel
	SessionID string            `gorm:"uniqueIndex;not null"` // внешний идентификатор для клиентов и ws
	UserID    *string           `gorm:"index"`
	ResumeID  *string           `gorm:"index"`
	Status    ChatSessionStatus `gorm:"type:varchar(20);default:'active'"`
	Context   datatypes.JSON    `gorm:"type:jsonb"`

	// Relations
	Messages []ChatMessage `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Resume   *Resume       `gorm:"foreignKey:ResumeID"`
}

type ChatMessage struct {
	BaseModel
	SessionID   string         `gorm:"not null;index"`
	Role        MessageRole    `gorm:"type:varchar(20);not null"`
	Content     string         `gorm:"type:text;not null"`
	MessageType string         `gorm:"default:'text'"` // text, file, optimization
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}
