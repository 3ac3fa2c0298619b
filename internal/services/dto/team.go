package dto

import (
	"time"

	"resumehub/internal/models"
)

// CreateTeamRequest - создание команды
type CreateTeamRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Domain string `json:"domain" binding:"required,max=100,hostname"`
}

// UpdateTeamRequest - обновление команды
type UpdateTeamRequest struct {
	Name       *string                `json:"name,omitempty" binding:"omitempty,max=200"`
	WhiteLabel map[string]interface{} `json:"white_label,omitempty"`
}

// AddMemberRequest - приглашение участника по email
type AddMemberRequest struct {
	Email string          `json:"email" binding:"required,email"`
	Role  models.TeamRole `json:"role" binding:"required,oneof=admin member"`
}

// UpdateMemberRoleRequest - смена роли участника
type UpdateMemberRoleRequest struct {
	Role models.TeamRole `json:"role" binding:"required,oneof=admin member"`
}

// TeamResponse - команда в ответах API
type TeamResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Domain      string                  `json:"domain"`
	OwnerID     string                  `json:"owner_id"`
	Tier        models.SubscriptionTier `json:"tier"`
	MemberCount int64                   `json:"member_count"`
	IsActive    bool                    `json:"is_active"`
	CreatedAt   time.Time               `json:"created_at"`
}

// MemberResponse - участник команды
type MemberResponse struct {
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.TeamRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// TeamMetricsResponse - сводные показатели команды
type TeamMetricsResponse struct {
	TeamID       string `json:"team_id"`
	MemberCount  int64  `json:"member_count"`
	ProjectCount int64  `json:"project_count"`
	ResumeCount  int64  `json:"resume_count"`
}

// TeamExportResponse - выгрузка данных команды
type TeamExportResponse struct {
	Team       TeamResponse      `json:"team"`
	Members    []MemberResponse  `json:"members"`
	Projects   []ProjectResponse `json:"projects"`
	ExportedAt time.Time         `json:"exported_at"`
}

// CreateProjectRequest - создание проекта в команде
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateProjectRequest - обновление проекта
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// ProjectResponse - проект в ответах API
type ProjectResponse struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectToResponse конвертирует модель в ответ API.
func ProjectToResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		TeamID:      p.TeamID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt,
	}
}
