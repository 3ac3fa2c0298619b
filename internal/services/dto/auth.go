package dto

import (
	"time"

	"resumehub/internal/models"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=200"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest - запрос выхода
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest - запрос подтверждения email
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest - повторная отправка письма подтверждения
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetRequest - запрос сброса пароля
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm - подтверждение сброса пароля
type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePasswordRequest - смена пароля авторизованным пользователем
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// UserDTO - базовая информация о пользователе
type UserDTO struct {
	ID          string                  `json:"id"`
	Email       string                  `json:"email"`
	FullName    string                  `json:"full_name"`
	Role        models.UserRole         `json:"role"`
	Status      models.UserStatus       `json:"status"`
	Tier        models.SubscriptionTier `json:"tier"`
	IsVerified  bool                    `json:"is_verified"`
	LastLoginAt *time.Time              `json:"last_login_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// UserToDTO конвертирует модель в DTO без чувствительных полей.
func UserToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		Status:      user.Status,
		Tier:        user.Tier,
		IsVerified:  user.IsVerified,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateProfileRequest - обновление профиля пользователя
type UpdateProfileRequest struct {
	FullName    *string                `json:"full_name,omitempty" binding:"omitempty,max=200"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}
