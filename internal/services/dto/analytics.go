package dto

import "time"

// TrackEventRequest - произвольное событие клиента
type TrackEventRequest struct {
	EventType string                 `json:"event_type" binding:"required,max=100"`
	Resource  string                 `json:"resource" binding:"omitempty,max=200"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// DashboardResponse - сводка по платформе за период
type DashboardResponse struct {
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	EventCounts map[string]int64 `json:"event_counts"`
}

// DailyPoint - точка суточного ряда событий
type DailyPoint struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// UserDashboardResponse - сводка активности пользователя
type UserDashboardResponse struct {
	UserID            string           `json:"user_id"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	EventCounts       map[string]int64 `json:"event_counts"`
	Daily             []DailyPoint     `json:"daily"`
	ResumeCount       int64            `json:"resume_count"`
	AvgATSScore       float64          `json:"avg_ats_score"`
	ResumesByIndustry map[string]int64 `json:"resumes_by_industry"`
	OptimizationCount int64            `json:"optimization_count"`
}

// ActivityLogResponse - запись журнала активности
type ActivityLogResponse struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityListResponse - страница журнала активности
type ActivityListResponse struct {
	Entries []ActivityLogResponse `json:"entries"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}
