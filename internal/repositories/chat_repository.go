package repositories

import (
	"errors"
	"time"

	"resumehub/internal/models"

	"gorm.io/gorm"
)

var ErrChatSessionNotFound = errors.New("chat session not found")

type ChatRepository interface {
	CreateSession(session *models.ChatSession) error
	FindSessionByID(id string) (*models.ChatSession, error)
	FindSessionBySessionID(sessionID string) (*models.ChatSession, error)
	FindSessionsByUserID(userID string, limit, offset int) ([]models.ChatSession, int64, error)
	UpdateSessionStatus(id string, status models.ChatSessionStatus) error
	UpdateSessionResume(id string, resumeID *string) error
	UpdateSessionContext(id string, context []byte) error
	DeleteSession(id string) error
	DeleteAbandonedSessions(before time.Time) (int64, error)

	// Message operations
	CreateMessage(message *models.ChatMessage) error
	FindMessagesBySessionID(sessionID string, limit int) ([]models.ChatMessage, error)
	CountMessagesBySessionID(sessionID string) (int64, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) CreateSession(session *models.ChatSession) error {
	return r.db.Create(session).Error
}

func (r *ChatRepositoryImpl) FindSessionByID(id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.Preload("Resume").First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepositoryImpl) FindSessionBySessionID(sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.Preload("Resume").First(&session, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepositoryImpl) FindSessionsByUserID(userID string, limit, offset int) ([]models.ChatSession, int64, error) {
	var sessions []models.ChatSession
	var total int64

	if err := r.db.Model(&models.ChatSession{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *ChatRepositoryImpl) UpdateSessionStatus(id string, status models.ChatSessionStatus) error {
	result := r.db.Model(&models.ChatSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatSessionNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) UpdateSessionResume(id string, resumeID *string) error {
	result := r.db.Model(&models.ChatSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"resume_id":  resumeID,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatSessionNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) UpdateSessionContext(id string, context []byte) error {
	return r.db.Model(&models.ChatSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"context":    context,
		"updated_at": time.Now(),
	}).Error
}

func (r *ChatRepositoryImpl) DeleteSession(id string) error {
	result := r.db.Delete(&models.ChatSession{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatSessionNotFound
	}
	return nil
}

// DeleteAbandonedSessions удаляет неактивные сессии старше указанной даты.
func (r *ChatRepositoryImpl) DeleteAbandonedSessions(before time.Time) (int64, error) {
	result := r.db.Delete(&models.ChatSession{},
		"status = ? AND updated_at < ?", models.ChatSessionAbandoned, before)
	return result.RowsAffected, result.Error
}

// Message operations

func (r *ChatRepositoryImpl) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindMessagesBySessionID(sessionID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := r.db.Where("session_id = ?", sessionID).Order("created_at ASC")
	if limit > 0 {
		// Последние limit сообщений в хронологическом порядке
		var count int64
		if err := r.db.Model(&models.ChatMessage{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > int64(limit) {
			query = query.Offset(int(count) - limit)
		}
	}
	err := query.Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) CountMessagesBySessionID(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}
