package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Resume struct {
	BaseModel
	UserID          string `gorm:"not null;index"`
	Title           string `gorm:"not null"`
	FilePath        string `gorm:"not null"`
	ContentType     string
	FileSize        int64
	ContentText     string         `gorm:"type:text"`
	Sections        datatypes.JSON `gorm:"type:jsonb"` // parsed resume sections
	ATSScore        float64        `gorm:"default:0"`
	Industry        string
	ExperienceLevel string         // entry, mid, senior, executive
	Skills          pq.StringArray `gorm:"type:text[]"`
	Keywords        pq.StringArray `gorm:"type:text[]"`

	// Relations
	Optimizations []Optimization `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE"`
}

type Optimization struct {
	BaseModel
	ResumeID       string `gorm:"not null;index"`
	Type           string `gorm:"not null"` // analysis, job_target, ats
	JobTitle       string
	JobDescription string `gorm:"type:text"`
	Suggestions    string `gorm:"type:text"`
	ScoreBefore    float64
	ScoreAfter     float64
	Status         OptimizationStatus `gorm:"type:varchar(20);default:'pending'"`

	// Relations
	Resume Resume `gorm:"foreignKey:ResumeID"`
}
