package repositories

import (
	"time"

	"resumehub/internal/models"

	"gorm.io/gorm"
)

// DailyEventCount - количество событий за сутки.
type DailyEventCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// ResumeStats - агрегаты по резюме пользователя.
type ResumeStats struct {
	Count       int64
	AvgATSScore float64
	ByIndustry  map[string]int64
}

type AnalyticsRepository interface {
	CreateEvent(event *models.AnalyticsEvent) error
	CountEventsByType(eventType string, from, to time.Time) (int64, error)
	GetEventCounts(from, to time.Time) (map[string]int64, error)
	GetUserEventCounts(userID string, from, to time.Time) (map[string]int64, error)
	GetUserDailyEventCounts(userID string, from, to time.Time) ([]DailyEventCount, error)
	GetResumeStats(userID string) (*ResumeStats, error)
	CountOptimizationsByUserID(userID string) (int64, error)

	// ActivityLog operations
	CreateActivityLog(log *models.ActivityLog) error
	FindActivityByUserID(userID string, limit, offset int) ([]models.ActivityLog, int64, error)
	FindActivityByTeamID(teamID string, limit, offset int) ([]models.ActivityLog, int64, error)
}

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func (r *AnalyticsRepositoryImpl) CreateEvent(event *models.AnalyticsEvent) error {
	return r.db.Create(event).Error
}

func (r *AnalyticsRepositoryImpl) CountEventsByType(eventType string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalyticsEvent{}).
		Where("event_type = ? AND created_at BETWEEN ? AND ?", eventType, from, to).
		Count(&count).Error
	return count, err
}

type eventCount struct {
	EventType string
	Count     int64
}

func (r *AnalyticsRepositoryImpl) GetEventCounts(from, to time.Time) (map[string]int64, error) {
	var rows []eventCount
	err := r.db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}

func (r *AnalyticsRepositoryImpl) GetUserEventCounts(userID string, from, to time.Time) (map[string]int64, error) {
	var rows []eventCount
	err := r.db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) as count").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from, to).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.EventType] = row.Count
	}
	return counts, nil
}

func (r *AnalyticsRepositoryImpl) GetUserDailyEventCounts(userID string, from, to time.Time) ([]DailyEventCount, error) {
	var rows []DailyEventCount
	err := r.db.Model(&models.AnalyticsEvent{}).
		Select("DATE_TRUNC('day', created_at) as day, COUNT(*) as count").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from, to).
		Group("day").
		Order("day").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepositoryImpl) GetResumeStats(userID string) (*ResumeStats, error) {
	var totals struct {
		Count       int64
		AvgATSScore float64
	}
	err := r.db.Model(&models.Resume{}).
		Select("COUNT(*) as count, COALESCE(AVG(ats_score), 0) as avg_ats_score").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var industries []struct {
		Industry string
		Count    int64
	}
	err = r.db.Model(&models.Resume{}).
		Select("industry, COUNT(*) as count").
		Where("user_id = ? AND industry <> ''", userID).
		Group("industry").
		Scan(&industries).Error
	if err != nil {
		return nil, err
	}

	stats := &ResumeStats{
		Count:       totals.Count,
		AvgATSScore: totals.AvgATSScore,
		ByIndustry:  make(map[string]int64, len(industries)),
	}
	for _, row := range industries {
		stats.ByIndustry[row.Industry] = row.Count
	}
	return stats, nil
}

func (r *AnalyticsRepositoryImpl) CountOptimizationsByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Optimization{}).
		Where("resume_id IN (?)", r.db.Model(&models.Resume{}).
			Select("id").Where("user_id = ?", userID)).
		Count(&count).Error
	return count, err
}

// ActivityLog operations

func (r *AnalyticsRepositoryImpl) CreateActivityLog(log *models.ActivityLog) error {
	return r.db.Create(log).Error
}

func (r *AnalyticsRepositoryImpl) FindActivityByUserID(userID string, limit, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := r.db.Model(&models.ActivityLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, total, err
}

func (r *AnalyticsRepositoryImpl) FindActivityByTeamID(teamID string, limit, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := r.db.Model(&models.ActivityLog{}).Where("team_id = ?", teamID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("team_id = ?", teamID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
