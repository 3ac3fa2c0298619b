package services

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

type AnalyticsService interface {
	TrackEvent(userID string, req *dto.TrackEventRequest) error
	LogActivity(userID string, teamID *string, action, resourceType, resourceID string)
	GetDashboard(from, to time.Time) (*dto.DashboardResponse, error)
	GetUserDashboard(userID string, from, to time.Time) (*dto.UserDashboardResponse, error)
	GetUserActivity(userID string, page, perPage int) (*dto.ActivityListResponse, error)
	GetTeamActivity(teamID string, page, perPage int) (*dto.ActivityListResponse, error)
}

type AnalyticsServiceImpl struct {
	analyticsRepo repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) AnalyticsService {
	return &AnalyticsServiceImpl{analyticsRepo: analyticsRepo}
}

func (s *AnalyticsServiceImpl) TrackEvent(userID string, req *dto.TrackEventRequest) error {
	event := &models.AnalyticsEvent{
		UserID:    userID,
		EventType: req.EventType,
		Resource:  req.Resource,
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return apperrors.NewBadRequestError("Invalid event metadata")
		}
		event.Metadata = datatypes.JSON(raw)
	}
	if err := s.analyticsRepo.CreateEvent(event); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// LogActivity пишет запись в журнал активности. Ошибки только
// логируются: бизнес-операция из-за аудита не падает.
func (s *AnalyticsServiceImpl) LogActivity(userID string, teamID *string, action, resourceType, resourceID string) {
	entry := &models.ActivityLog{
		UserID:       userID,
		TeamID:       teamID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	if err := s.analyticsRepo.CreateActivityLog(entry); err != nil {
		logger.WithError(err).Warn("Failed to write activity log",
			"user_id", userID, "action", action)
	}
}

func (s *AnalyticsServiceImpl) GetDashboard(from, to time.Time) (*dto.DashboardResponse, error) {
	counts, err := s.analyticsRepo.GetEventCounts(from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.DashboardResponse{From: from, To: to, EventCounts: counts}, nil
}

func (s *AnalyticsServiceImpl) GetUserDashboard(userID string, from, to time.Time) (*dto.UserDashboardResponse, error) {
	counts, err := s.analyticsRepo.GetUserEventCounts(userID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	daily, err := s.analyticsRepo.GetUserDailyEventCounts(userID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resumeStats, err := s.analyticsRepo.GetResumeStats(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	optimizations, err := s.analyticsRepo.CountOptimizationsByUserID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	points := make([]dto.DailyPoint, 0, len(daily))
	for _, d := range daily {
		points = append(points, dto.DailyPoint{Day: d.Day, Count: d.Count})
	}

	return &dto.UserDashboardResponse{
		UserID:            userID,
		From:              from,
		To:                to,
		EventCounts:       counts,
		Daily:             points,
		ResumeCount:       resumeStats.Count,
		AvgATSScore:       resumeStats.AvgATSScore,
		ResumesByIndustry: resumeStats.ByIndustry,
		OptimizationCount: optimizations,
	}, nil
}

func (s *AnalyticsServiceImpl) GetUserActivity(userID string, page, perPage int) (*dto.ActivityListResponse, error) {
	offset := (page - 1) * perPage
	logs, total, err := s.analyticsRepo.FindActivityByUserID(userID, perPage, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activityToList(logs, total, page, perPage), nil
}

func (s *AnalyticsServiceImpl) GetTeamActivity(teamID string, page, perPage int) (*dto.ActivityListResponse, error) {
	offset := (page - 1) * perPage
	logs, total, err := s.analyticsRepo.FindActivityByTeamID(teamID, perPage, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activityToList(logs, total, page, perPage), nil
}

func activityToList(logs []models.ActivityLog, total int64, page, perPage int) *dto.ActivityListResponse {
	entries := make([]dto.ActivityLogResponse, 0, len(logs))
	for i := range logs {
		entries = append(entries, dto.ActivityLogResponse{
			ID:           logs[i].ID,
			Action:       logs[i].Action,
			ResourceType: logs[i].ResourceType,
			ResourceID:   logs[i].ResourceID,
			CreatedAt:    logs[i].CreatedAt,
		})
	}
	return &dto.ActivityListResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
