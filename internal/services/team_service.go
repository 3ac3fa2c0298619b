package services

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

// teamMemberLimits - максимум участников команды по тарифу владельца.
var teamMemberLimits = map[models.SubscriptionTier]int64{
	models.TierFree:       3,
	models.TierPro:        25,
	models.TierEnterprise: -1,
}

type TeamService interface {
	Create(userID string, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	Get(userID, teamID string) (*dto.TeamResponse, error)
	ListMine(userID string) ([]dto.TeamResponse, error)
	Update(userID, teamID string, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	Delete(userID, teamID string) error
	Metrics(userID, teamID string) (*dto.TeamMetricsResponse, error)
	Export(userID, teamID string) (*dto.TeamExportResponse, error)

	AddMember(userID, teamID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	ListMembers(userID, teamID string) ([]dto.MemberResponse, error)
	UpdateMemberRole(userID, teamID, memberUserID string, role models.TeamRole) error
	RemoveMember(userID, teamID, memberUserID string) error

	CreateProject(userID, teamID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	ListProjects(userID, teamID string, includeArchived bool) ([]dto.ProjectResponse, error)
	UpdateProject(userID, teamID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	ArchiveProject(userID, teamID, projectID string) error
	DeleteProject(userID, teamID, projectID string) error
}

type TeamServiceImpl struct {
	teamRepo  repositories.TeamRepository
	userRepo  repositories.UserRepository
	analytics AnalyticsService
}

func NewTeamService(teamRepo repositories.TeamRepository, userRepo repositories.UserRepository, analytics AnalyticsService) TeamService {
	return &TeamServiceImpl{teamRepo: teamRepo, userRepo: userRepo, analytics: analytics}
}

// Create - новая команда; создатель становится owner и первым участником.
func (s *TeamServiceImpl) Create(userID string, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("team", "User not found")
	}

	if _, err := s.teamRepo.FindByDomain(req.Domain); err == nil {
		return nil, apperrors.NewConflictError("team", "Domain already taken")
	}

	team := &models.Team{
		Name:     req.Name,
		Domain:   req.Domain,
		OwnerID:  userID,
		Tier:     user.Tier,
		IsActive: true,
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, apperrors.InternalError(err)
	}

	owner := &models.TeamMember{
		TeamID: team.ID,
		UserID: userID,
		Role:   models.TeamRoleOwner,
	}
	if err := s.teamRepo.AddMember(owner); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.analytics.LogActivity(userID, &team.ID, "team.created", "team", team.ID)

	return s.teamToResponse(team)
}

func (s *TeamServiceImpl) teamToResponse(team *models.Team) (*dto.TeamResponse, error) {
	count, err := s.teamRepo.CountMembers(team.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Domain:      team.Domain,
		OwnerID:     team.OwnerID,
		Tier:        team.Tier,
		MemberCount: count,
		IsActive:    team.IsActive,
		CreatedAt:   team.CreatedAt,
	}, nil
}

// requireMember возвращает команду и роль пользователя в ней.
func (s *TeamServiceImpl) requireMember(userID, teamID string) (*models.Team, models.TeamRole, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		return nil, "", apperrors.NewNotFoundError("team", "Team not found")
	}
	member, err := s.teamRepo.FindMember(teamID, userID)
	if err != nil {
		return nil, "", apperrors.ErrInsufficientPermissions
	}
	return team, member.Role, nil
}

// requireAdmin - операция доступна owner и admin.
func (s *TeamServiceImpl) requireAdmin(userID, teamID string) (*models.Team, error) {
	team, role, err := s.requireMember(userID, teamID)
	if err != nil {
		return nil, err
	}
	if role != models.TeamRoleOwner && role != models.TeamRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return team, nil
}

func (s *TeamServiceImpl) Get(userID, teamID string) (*dto.TeamResponse, error) {
	team, _, err := s.requireMember(userID, teamID)
	if err != nil {
		return nil, err
	}
	return s.teamToResponse(team)
}

func (s *TeamServiceImpl) ListMine(userID string) ([]dto.TeamResponse, error) {
	teams, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		resp, err := s.teamToResponse(&teams[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *TeamServiceImpl) Update(userID, teamID string, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	team, err := s.requireAdmin(userID, teamID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.WhiteLabel != nil {
		// White-label брендирование доступно только на enterprise
		if team.Tier != models.TierEnterprise {
			return nil, apperrors.ErrPlanLimitExceeded
		}
		raw, err := json.Marshal(req.WhiteLabel)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid white label payload")
		}
		team.WhiteLabel = datatypes.JSON(raw)
	}
	if err := s.teamRepo.Update(team); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.teamToResponse(team)
}

// Delete - удаление команды, доступно только owner.
func (s *TeamServiceImpl) Delete(userID, teamID string) error {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		return apperrors.NewNotFoundError("team", "Team not found")
	}
	if team.OwnerID != userID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.teamRepo.Delete(teamID); err != nil {
		return apperrors.InternalError(err)
	}
	s.analytics.LogActivity(userID, &teamID, "team.deleted", "team", teamID)
	return nil
}

// Metrics - сводка по команде: участники, проекты, резюме участников.
func (s *TeamServiceImpl) Metrics(userID, teamID string) (*dto.TeamMetricsResponse, error) {
	if _, _, err := s.requireMember(userID, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.CountMembers(teamID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	projects, err := s.teamRepo.CountProjects(teamID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resumes, err := s.teamRepo.CountMemberResumes(teamID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TeamMetricsResponse{
		TeamID:       teamID,
		MemberCount:  members,
		ProjectCount: projects,
		ResumeCount:  resumes,
	}, nil
}

// Export - выгрузка команды целиком, доступна owner и admin.
func (s *TeamServiceImpl) Export(userID, teamID string) (*dto.TeamExportResponse, error) {
	team, err := s.requireAdmin(userID, teamID)
	if err != nil {
		return nil, err
	}

	teamResp, err := s.teamToResponse(team)
	if err != nil {
		return nil, err
	}
	members, err := s.ListMembers(userID, teamID)
	if err != nil {
		return nil, err
	}
	projects, err := s.ListProjects(userID, teamID, true)
	if err != nil {
		return nil, err
	}

	return &dto.TeamExportResponse{
		Team:       *teamResp,
		Members:    members,
		Projects:   projects,
		ExportedAt: time.Now(),
	}, nil
}

// AddMember - добавление участника по email с проверкой лимита тарифа.
func (s *TeamServiceImpl) AddMember(userID, teamID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	team, err := s.requireAdmin(userID, teamID)
	if err != nil {
		return nil, err
	}

	if limit := teamMemberLimits[team.Tier]; limit >= 0 {
		count, err := s.teamRepo.CountMembers(teamID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count >= limit {
			return nil, apperrors.ErrPlanLimitExceeded
		}
	}

	invited, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperrors.NewNotFoundError("team", "No user with this email")
	}
	if _, err := s.teamRepo.FindMember(teamID, invited.ID); err == nil {
		return nil, apperrors.ErrAlreadyTeamMember
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: invited.ID,
		Role:   req.Role,
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.analytics.LogActivity(userID, &teamID, "team.member_added", "user", invited.ID)

	return &dto.MemberResponse{
		UserID:   invited.ID,
		Email:    invited.Email,
		FullName: invited.FullName,
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}, nil
}

func (s *TeamServiceImpl) ListMembers(userID, teamID string) ([]dto.MemberResponse, error) {
	if _, _, err := s.requireMember(userID, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.FindMembers(teamID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		result = append(result, dto.MemberResponse{
			UserID:   m.UserID,
			Email:    m.User.Email,
			FullName: m.User.FullName,
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		})
	}
	return result, nil
}

func (s *TeamServiceImpl) UpdateMemberRole(userID, teamID, memberUserID string, role models.TeamRole) error {
	team, err := s.requireAdmin(userID, teamID)
	if err != nil {
		return err
	}
	// Роль owner не переназначается через этот метод
	if memberUserID == team.OwnerID || role == models.TeamRoleOwner {
		return apperrors.ErrCannotRemoveOwner
	}

	if err := s.teamRepo.UpdateMemberRole(teamID, memberUserID, role); err != nil {
		if err == repositories.ErrMemberNotFound {
			return apperrors.NewNotFoundError("team", "Member not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// RemoveMember - исключение участника. Участник может выйти сам,
// owner исключить нельзя.
func (s *TeamServiceImpl) RemoveMember(userID, teamID, memberUserID string) error {
	team, role, err := s.requireMember(userID, teamID)
	if err != nil {
		return err
	}
	if memberUserID == team.OwnerID {
		return apperrors.ErrCannotRemoveOwner
	}
	isSelf := userID == memberUserID
	if !isSelf && role != models.TeamRoleOwner && role != models.TeamRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.teamRepo.RemoveMember(teamID, memberUserID); err != nil {
		if err == repositories.ErrMemberNotFound {
			return apperrors.NewNotFoundError("team", "Member not found")
		}
		return apperrors.InternalError(err)
	}
	s.analytics.LogActivity(userID, &teamID, "team.member_removed", "user", memberUserID)
	return nil
}

// Project operations

func (s *TeamServiceImpl) CreateProject(userID, teamID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if _, _, err := s.requireMember(userID, teamID); err != nil {
		return nil, err
	}

	project := &models.Project{
		TeamID:      teamID,
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.teamRepo.CreateProject(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.analytics.LogActivity(userID, &teamID, "project.created", "project", project.ID)

	resp := dto.ProjectToResponse(project)
	return &resp, nil
}

func (s *TeamServiceImpl) ListProjects(userID, teamID string, includeArchived bool) ([]dto.ProjectResponse, error) {
	if _, _, err := s.requireMember(userID, teamID); err != nil {
		return nil, err
	}

	projects, err := s.teamRepo.FindProjectsByTeamID(teamID, includeArchived)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, dto.ProjectToResponse(&projects[i]))
	}
	return result, nil
}

// getTeamProject проверяет, что проект принадлежит команде.
func (s *TeamServiceImpl) getTeamProject(teamID, projectID string) (*models.Project, error) {
	project, err := s.teamRepo.FindProjectByID(projectID)
	if err != nil || project.TeamID != teamID {
		return nil, apperrors.NewNotFoundError("team", "Project not found")
	}
	return project, nil
}

func (s *TeamServiceImpl) UpdateProject(userID, teamID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if _, _, err := s.requireMember(userID, teamID); err != nil {
		return nil, err
	}
	project, err := s.getTeamProject(teamID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := s.teamRepo.UpdateProject(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ProjectToResponse(project)
	return &resp, nil
}

func (s *TeamServiceImpl) ArchiveProject(userID, teamID, projectID string) error {
	if _, err := s.requireAdmin(userID, teamID); err != nil {
		return err
	}
	if _, err := s.getTeamProject(teamID, projectID); err != nil {
		return err
	}
	if err := s.teamRepo.ArchiveProject(projectID); err != nil {
		return apperrors.InternalError(err)
	}
	s.analytics.LogActivity(userID, &teamID, "project.archived", "project", projectID)
	return nil
}

func (s *TeamServiceImpl) DeleteProject(userID, teamID, projectID string) error {
	if _, err := s.requireAdmin(userID, teamID); err != nil {
		return err
	}
	if _, err := s.getTeamProject(teamID, projectID); err != nil {
		return err
	}
	if err := s.teamRepo.DeleteProject(projectID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
