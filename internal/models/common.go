package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel — общие поля всех сущностей. ID генерируется на стороне БД.
type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BaseModelWithDeleted добавляет мягкое удаление (deleted_at).
type BaseModelWithDeleted struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
