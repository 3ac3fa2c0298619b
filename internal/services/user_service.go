package services

import (
	"encoding/json"

	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"

	"gorm.io/datatypes"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserDTO, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)
	DeleteAccount(userID string) error
	ListUsers(limit, offset int) ([]dto.UserDTO, int64, error)
	SetUserStatus(userID string, status models.UserStatus) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	result := dto.UserToDTO(user)
	return &result, nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Preferences != nil {
		raw, err := json.Marshal(req.Preferences)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid preferences payload")
		}
		user.Preferences = datatypes.JSON(raw)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := dto.UserToDTO(user)
	return &result, nil
}

// DeleteAccount удаляет пользователя и все связанные данные (каскадом).
func (s *UserServiceImpl) DeleteAccount(userID string) error {
	if err := s.userRepo.DeleteUserRefreshTokens(userID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Delete(userID); err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.NewNotFoundError("user", "User not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ListUsers - админский список пользователей
func (s *UserServiceImpl) ListUsers(limit, offset int) ([]dto.UserDTO, int64, error) {
	users, total, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, dto.UserToDTO(&users[i]))
	}
	return result, total, nil
}

// SetUserStatus - блокировка/разблокировка пользователя админом
func (s *UserServiceImpl) SetUserStatus(userID string, status models.UserStatus) error {
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.NewNotFoundError("user", "User not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}
