package repositories

import (
	"errors"
	"time"

	"resumehub/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrResumeNotFound       = errors.New("resume not found")
	ErrOptimizationNotFound = errors.New("optimization not found")
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id string) (*models.Resume, error)
	FindByUserID(userID string, limit, offset int) ([]models.Resume, int64, error)
	Update(resume *models.Resume) error
	UpdateAnalysis(id string, sections []byte, atsScore float64, industry, level string, skills, keywords []string) error
	Delete(id string) error
	CountByUserID(userID string) (int64, error)

	// Optimization operations
	CreateOptimization(opt *models.Optimization) error
	FindOptimizationByID(id string) (*models.Optimization, error)
	FindOptimizationsByResumeID(resumeID string) ([]models.Optimization, error)
	UpdateOptimizationStatus(id string, status models.OptimizationStatus) error
	UpdateOptimizationScore(id string, scoreAfter float64) error
	CountOptimizationsSince(userID string, since time.Time) (int64, error)
}

type ResumeRepositoryImpl struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &ResumeRepositoryImpl{db: db}
}

func (r *ResumeRepositoryImpl) Create(resume *models.Resume) error {
	return r.db.Create(resume).Error
}

func (r *ResumeRepositoryImpl) FindByID(id string) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.Preload("Optimizations").First(&resume, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepositoryImpl) FindByUserID(userID string, limit, offset int) ([]models.Resume, int64, error) {
	var resumes []models.Resume
	var total int64

	if err := r.db.Model(&models.Resume{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&resumes).Error
	return resumes, total, err
}

func (r *ResumeRepositoryImpl) Update(resume *models.Resume) error {
	result := r.db.Model(resume).Updates(map[string]interface{}{
		"title":      resume.Title,
		"industry":   resume.Industry,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepositoryImpl) UpdateAnalysis(id string, sections []byte, atsScore float64, industry, level string, skills, keywords []string) error {
	result := r.db.Model(&models.Resume{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sections":         sections,
		"ats_score":        atsScore,
		"industry":         industry,
		"experience_level": level,
		"skills":           pq.StringArray(skills),
		"keywords":         pq.StringArray(keywords),
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Resume{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *ResumeRepositoryImpl) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Resume{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Optimization operations

func (r *ResumeRepositoryImpl) CreateOptimization(opt *models.Optimization) error {
	return r.db.Create(opt).Error
}

func (r *ResumeRepositoryImpl) FindOptimizationByID(id string) (*models.Optimization, error) {
	var opt models.Optimization
	err := r.db.First(&opt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptimizationNotFound
		}
		return nil, err
	}
	return &opt, nil
}

func (r *ResumeRepositoryImpl) FindOptimizationsByResumeID(resumeID string) ([]models.Optimization, error) {
	var opts []models.Optimization
	err := r.db.Where("resume_id = ?", resumeID).Order("created_at DESC").Find(&opts).Error
	return opts, err
}

func (r *ResumeRepositoryImpl) UpdateOptimizationStatus(id string, status models.OptimizationStatus) error {
	result := r.db.Model(&models.Optimization{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOptimizationNotFound
	}
	return nil
}

func (r *ResumeRepositoryImpl) UpdateOptimizationScore(id string, scoreAfter float64) error {
	result := r.db.Model(&models.Optimization{}).Where("id = ?", id).Updates(map[string]interface{}{
		"score_after": scoreAfter,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOptimizationNotFound
	}
	return nil
}

// CountOptimizationsSince считает оптимизации пользователя с указанного
// момента, для проверки месячного лимита тарифа.
func (r *ResumeRepositoryImpl) CountOptimizationsSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Optimization{}).
		Where("created_at >= ?", since).
		Where("resume_id IN (?)", r.db.Model(&models.Resume{}).
			Select("id").Where("user_id = ?", userID)).
		Count(&count).Error
	return count, err
}
