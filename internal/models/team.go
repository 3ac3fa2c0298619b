package models

import (
	"gorm.io/datatypes"
)

type Team struct {
	BaseModel
	Name       string           `gorm:"not null"`
	Domain     string           `gorm:"uniqueIndex;not null"`
	OwnerID    string           `gorm:"not null;index"`
	Tier       SubscriptionTier `gorm:"type:varchar(20);default:'enterprise'"`
	WhiteLabel datatypes.JSON   `gorm:"type:jsonb"` // logo_url, primary_color, custom_domain
	IsActive   bool             `gorm:"default:true"`

	// Relations
	Members  []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Projects []Project    `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TeamMember - одна строка membership на пару team/user
type TeamMember struct {
	BaseModel
	TeamID string   `gorm:"not null;index;uniqueIndex:idx_team_user"`
	UserID string   `gorm:"not null;index;uniqueIndex:idx_team_user"`
	Role   TeamRole `gorm:"type:varchar(20);default:'member'"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

type Project struct {
	BaseModel
	TeamID      string `gorm:"not null;index"`
	OwnerID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	IsArchived  bool   `gorm:"default:false"`
}
