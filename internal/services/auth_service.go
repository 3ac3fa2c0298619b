package services

import (
	"time"

	"resumehub/internal/auth"
	"resumehub/internal/email"
	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

const (
	maxFailedLogins = 5
	lockoutWindow   = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error
	ResendVerification(email string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	ChangePassword(userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	verificationToken := auth.GenerateOpaqueToken()

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		FullName:          req.FullName,
		Role:              models.UserRoleUser,
		Status:            models.UserStatusPending,
		Tier:              models.TierFree,
		VerificationToken: verificationToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	if s.emailProvider != nil {
		if err := s.emailProvider.SendVerification(user.Email, user.FullName, verificationToken); err != nil {
			// Регистрация не откатывается из-за проблем с почтой
			logger.WithError(err).Warn("Failed to send verification email", "user_id", user.ID)
		}
	}

	return nil
}

// Login - вход с защитой от перебора: после maxFailedLogins неудачных
// попыток за lockoutWindow аккаунт временно блокируется.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	failed, err := s.userRepo.CountRecentFailedAttempts(req.Email, time.Now().Add(-lockoutWindow))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if failed >= maxFailedLogins {
		return nil, apperrors.ErrAccountLocked
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			s.recordAttempt(req, false, "user not found")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordAttempt(req, false, "wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusBlocked {
		s.recordAttempt(req, false, "account blocked")
		return nil, apperrors.ErrInsufficientPermissions
	}

	s.recordAttempt(req, true, "")
	if err := s.userRepo.RecordLogin(user.ID); err != nil {
		logger.WithError(err).Warn("Failed to record login", "user_id", user.ID)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) recordAttempt(req *dto.LoginRequest, success bool, reason string) {
	attempt := &models.LoginAttempt{
		Email:         req.Email,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
		Success:       success,
		FailureReason: reason,
	}
	if err := s.userRepo.RecordLoginAttempt(attempt); err != nil {
		logger.WithError(err).Warn("Failed to record login attempt", "email", req.Email)
	}
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := auth.GenerateOpaqueToken()

	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(rt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.UserToDTO(user),
	}, nil
}

// RefreshToken - обмен refresh-токена на новую пару токенов
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.AuthResponse, error) {
	rt, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if rt.ExpiresAt.Before(time.Now()) {
		_ = s.userRepo.DeleteRefreshToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(rt.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Ротация: старый токен гасится до выпуска нового
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

// Logout - отзыв refresh-токена
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// VerifyEmail - подтверждение email по токену из письма
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ResendVerification - повторная отправка письма подтверждения. Для
// несуществующих и уже подтвержденных email ответ одинаковый.
func (s *AuthServiceImpl) ResendVerification(addr string) error {
	user, err := s.userRepo.FindByEmail(addr)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil
		}
		return apperrors.InternalError(err)
	}
	if user.IsVerified {
		return nil
	}

	user.VerificationToken = auth.GenerateOpaqueToken()
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	if s.emailProvider != nil {
		if err := s.emailProvider.SendVerification(user.Email, user.FullName, user.VerificationToken); err != nil {
			logger.WithError(err).Warn("Failed to send verification email", "user_id", user.ID)
		}
	}

	return nil
}

// RequestPasswordReset - выдача токена сброса пароля. Для несуществующих
// email ответ такой же, чтобы не раскрывать базу.
func (s *AuthServiceImpl) RequestPasswordReset(addr string) error {
	user, err := s.userRepo.FindByEmail(addr)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token := auth.GenerateOpaqueToken()

	exp := time.Now().Add(1 * time.Hour)
	user.ResetToken = token
	user.ResetTokenExp = &exp
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	if s.emailProvider != nil {
		if err := s.emailProvider.SendPasswordReset(user.Email, user.FullName, token); err != nil {
			logger.WithError(err).Warn("Failed to send reset email", "user_id", user.ID)
		}
	}

	return nil
}

// ResetPassword - установка нового пароля по токену сброса
func (s *AuthServiceImpl) ResetPassword(token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if user.ResetTokenExp == nil || user.ResetTokenExp.Before(time.Now()) {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Все активные сессии сбрасываются
	return s.userRepo.DeleteUserRefreshTokens(user.ID)
}

// ChangePassword - смена пароля авторизованным пользователем
func (s *AuthServiceImpl) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("auth", "User not found")
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
