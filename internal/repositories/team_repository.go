package repositories

import (
	"errors"
	"time"

	"resumehub/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrMemberNotFound  = errors.New("team member not found")
	ErrProjectNotFound = errors.New("project not found")
)

type TeamRepository interface {
	Create(team *models.Team) error
	FindByID(id string) (*models.Team, error)
	FindByDomain(domain string) (*models.Team, error)
	FindByUserID(userID string) ([]models.Team, error)
	Update(team *models.Team) error
	Delete(id string) error

	// Member operations
	AddMember(member *models.TeamMember) error
	FindMember(teamID, userID string) (*models.TeamMember, error)
	FindMembers(teamID string) ([]models.TeamMember, error)
	UpdateMemberRole(teamID, userID string, role models.TeamRole) error
	RemoveMember(teamID, userID string) error
	CountMembers(teamID string) (int64, error)

	// Project operations
	CreateProject(project *models.Project) error
	FindProjectByID(id string) (*models.Project, error)
	FindProjectsByTeamID(teamID string, includeArchived bool) ([]models.Project, error)
	UpdateProject(project *models.Project) error
	ArchiveProject(id string) error
	DeleteProject(id string) error

	// Aggregates
	CountProjects(teamID string) (int64, error)
	CountMemberResumes(teamID string) (int64, error)
}

type TeamRepositoryImpl struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &TeamRepositoryImpl{db: db}
}

func (r *TeamRepositoryImpl) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

func (r *TeamRepositoryImpl) FindByID(id string) (*models.Team, error) {
	var team models.Team
	err := r.db.Preload("Members").Preload("Members.User").First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepositoryImpl) FindByDomain(domain string) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, "domain = ?", domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepositoryImpl) FindByUserID(userID string) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepositoryImpl) Update(team *models.Team) error {
	result := r.db.Model(team).Updates(map[string]interface{}{
		"name":        team.Name,
		"tier":        team.Tier,
		"white_label": team.WhiteLabel,
		"is_active":   team.IsActive,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// Member operations

func (r *TeamRepositoryImpl) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

func (r *TeamRepositoryImpl) FindMember(teamID, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.First(&member, "team_id = ? AND user_id = ?", teamID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *TeamRepositoryImpl) FindMembers(teamID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.Preload("User").Where("team_id = ?", teamID).Order("created_at ASC").Find(&members).Error
	return members, err
}

func (r *TeamRepositoryImpl) UpdateMemberRole(teamID, userID string, role models.TeamRole) error {
	result := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) RemoveMember(teamID, userID string) error {
	result := r.db.Delete(&models.TeamMember{}, "team_id = ? AND user_id = ?", teamID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) CountMembers(teamID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// Project operations

func (r *TeamRepositoryImpl) CreateProject(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *TeamRepositoryImpl) FindProjectByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *TeamRepositoryImpl) FindProjectsByTeamID(teamID string, includeArchived bool) ([]models.Project, error) {
	var projects []models.Project
	query := r.db.Where("team_id = ?", teamID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *TeamRepositoryImpl) UpdateProject(project *models.Project) error {
	result := r.db.Model(project).Updates(map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) ArchiveProject(id string) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_archived": true,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) DeleteProject(id string) error {
	result := r.db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *TeamRepositoryImpl) CountProjects(teamID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// CountMemberResumes считает резюме всех участников команды.
func (r *TeamRepositoryImpl) CountMemberResumes(teamID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Resume{}).
		Where("user_id IN (?)", r.db.Model(&models.TeamMember{}).
			Select("user_id").Where("team_id = ?", teamID)).
		Count(&count).Error
	return count, err
}
