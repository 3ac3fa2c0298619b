package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Auth
// =========================================================================

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"User not verified. Please confirm your email address.",
	http.StatusForbidden,
)

var ErrAccountLocked = New(
	CodeRateLimited,
	"auth",
	"Too many failed login attempts. Try again later.",
	http.StatusTooManyRequests,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"A user with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// =========================================================================
// Uploads & Files
// =========================================================================

// ErrFileTooLarge - файл превышает максимальный размер для одного запроса.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge, // 413
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType, // 415
)

// =========================================================================
// Subscriptions & Plans
// =========================================================================

// ErrPlanLimitExceeded - использование фичи превысило лимит тарифа.
var ErrPlanLimitExceeded = New(
	CodePaymentRequired,
	"subscription",
	"Plan limit reached. Upgrade your subscription to continue.",
	http.StatusPaymentRequired, // 402
)

var ErrSubscriptionCancelled = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription is already cancelled",
	http.StatusConflict,
)

var ErrNoActiveSubscription = New(
	CodeNotFound,
	"subscription",
	"No active subscription found",
	http.StatusNotFound,
)

// =========================================================================
// Teams
// =========================================================================

var ErrAlreadyTeamMember = New(
	CodeAlreadyExists,
	"team",
	"User is already a member of this team",
	http.StatusConflict,
)

var ErrCannotRemoveOwner = New(
	CodeForbidden,
	"team",
	"The team owner cannot be removed",
	http.StatusForbidden,
)

var ErrTierRequired = New(
	CodeForbidden,
	"team",
	"This feature requires an enterprise subscription",
	http.StatusForbidden,
)

// =========================================================================
// AI
// =========================================================================

// ErrNoProviderConfigured - ни один LLM-провайдер не настроен для задачи.
var ErrNoProviderConfigured = New(
	CodeInvalidOperation,
	"ai",
	"No AI provider configured for this task",
	http.StatusServiceUnavailable,
)
