package services

import (
	"context"

	"github.com/google/uuid"

	"resumehub/internal/ai"
	"resumehub/internal/cache"
	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

const chatHistoryLimit = 50

type ChatService interface {
	CreateSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(userID string, page, perPage int) ([]dto.SessionResponse, int64, error)
	GetHistory(userID, sessionID string) (*dto.SessionHistoryResponse, error)
	SendMessage(ctx context.Context, userID, sessionID, content string) (*dto.AssistantReply, error)
	SetResume(ctx context.Context, userID, sessionID string, resumeID *string) error
	UpdateStatus(ctx context.Context, userID, sessionID string, status models.ChatSessionStatus) error
	CloseSession(ctx context.Context, userID, sessionID string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type ChatServiceImpl struct {
	chatRepo   repositories.ChatRepository
	resumeRepo repositories.ResumeRepository
	cache      *cache.Client
	router     *ai.Router
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	resumeRepo repositories.ResumeRepository,
	cacheClient *cache.Client,
	router *ai.Router,
) ChatService {
	return &ChatServiceImpl{
		chatRepo:   chatRepo,
		resumeRepo: resumeRepo,
		cache:      cacheClient,
		router:     router,
	}
}

// CreateSession - новая чат-сессия, опционально привязанная к резюме.
func (s *ChatServiceImpl) CreateSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := &models.ChatSession{
		SessionID: uuid.NewString(),
		UserID:    &userID,
		Status:    models.ChatSessionActive,
	}

	var resumeText string
	if req.ResumeID != nil {
		resume, err := s.resumeRepo.FindByID(*req.ResumeID)
		if err != nil || resume.UserID != userID {
			return nil, apperrors.NewNotFoundError("chat", "Resume not found")
		}
		session.ResumeID = req.ResumeID
		resumeText = resume.ContentText
	}

	if err := s.chatRepo.CreateSession(session); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if s.cache != nil {
		sc := &cache.SessionContext{
			SessionID:  session.ID,
			UserID:     userID,
			ResumeText: resumeText,
		}
		if session.ResumeID != nil {
			sc.ResumeID = *session.ResumeID
		}
		if err := s.cache.SaveSession(ctx, sc); err != nil {
			logger.WithError(err).Warn("Failed to warm session cache", "session_id", session.ID)
		}
	}

	return sessionToResponse(session, 0), nil
}

func sessionToResponse(session *models.ChatSession, messageCount int64) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:           session.ID,
		SessionID:    session.SessionID,
		ResumeID:     session.ResumeID,
		Status:       session.Status,
		MessageCount: messageCount,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

func (s *ChatServiceImpl) ListSessions(userID string, page, perPage int) ([]dto.SessionResponse, int64, error) {
	offset := (page - 1) * perPage
	sessions, total, err := s.chatRepo.FindSessionsByUserID(userID, perPage, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		count, _ := s.chatRepo.CountMessagesBySessionID(sessions[i].ID)
		result = append(result, *sessionToResponse(&sessions[i], count))
	}
	return result, total, nil
}

// getOwnedSession возвращает сессию только её владельцу.
func (s *ChatServiceImpl) getOwnedSession(userID, sessionID string) (*models.ChatSession, error) {
	session, err := s.chatRepo.FindSessionByID(sessionID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("chat", "Chat session not found")
	}
	if session.UserID == nil || *session.UserID != userID {
		return nil, apperrors.NewNotFoundError("chat", "Chat session not found")
	}
	return session, nil
}

func (s *ChatServiceImpl) GetHistory(userID, sessionID string) (*dto.SessionHistoryResponse, error) {
	session, err := s.getOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.FindMessagesBySessionID(session.ID, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, dto.MessageToResponse(&messages[i]))
	}
	return &dto.SessionHistoryResponse{
		Session:  *sessionToResponse(session, int64(len(messages))),
		Messages: items,
	}, nil
}

// SendMessage - основной цикл чата: сообщение сохраняется, контекст
// собирается из кеша (или базы при промахе), ответ генерирует LLM.
func (s *ChatServiceImpl) SendMessage(ctx context.Context, userID, sessionID, content string) (*dto.AssistantReply, error) {
	session, err := s.getOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.ChatSessionActive {
		return nil, apperrors.ErrInvalidStatus("chat", "Chat session is closed")
	}
	if s.router == nil {
		return nil, apperrors.ErrNoProviderConfigured
	}

	userMsg := &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.MessageRoleUser,
		Content:   content,
	}
	if err := s.chatRepo.CreateMessage(userMsg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	history, resumeText, err := s.loadContext(ctx, session)
	if err != nil {
		return nil, err
	}
	history = append(history, ai.Message{Role: "user", Content: content})

	completion, err := s.router.Complete(ctx, &ai.Request{
		TaskType:    ai.TaskChatResponse,
		Messages:    ai.BuildChatMessages(history, resumeText),
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.MessageRoleAssistant,
		Content:   completion.Content,
	}
	if err := s.chatRepo.CreateMessage(assistantMsg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.cacheAppend(ctx, session.ID, content, completion.Content)

	return &dto.AssistantReply{
		SessionID: session.SessionID,
		Content:   completion.Content,
		Provider:  completion.Provider,
		Model:     completion.Model,
	}, nil
}

// loadContext читает историю и текст резюме из кеша, при промахе
// восстанавливает их из базы и прогревает кеш заново.
func (s *ChatServiceImpl) loadContext(ctx context.Context, session *models.ChatSession) ([]ai.Message, string, error) {
	if s.cache != nil {
		sc, err := s.cache.GetSession(ctx, session.ID)
		if err != nil {
			logger.WithError(err).Warn("Session cache read failed", "session_id", session.ID)
		} else if sc != nil {
			history := make([]ai.Message, 0, len(sc.Messages))
			for _, m := range sc.Messages {
				history = append(history, ai.Message{Role: m.Role, Content: m.Content})
			}
			return history, sc.ResumeText, nil
		}
	}

	messages, err := s.chatRepo.FindMessagesBySessionID(session.ID, chatHistoryLimit)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	var resumeText string
	if session.ResumeID != nil {
		if resume, err := s.resumeRepo.FindByID(*session.ResumeID); err == nil {
			resumeText = resume.ContentText
		}
	}

	history := make([]ai.Message, 0, len(messages))
	cached := make([]cache.CachedMessage, 0, len(messages))
	for i := range messages {
		role := string(messages[i].Role)
		history = append(history, ai.Message{Role: role, Content: messages[i].Content})
		cached = append(cached, cache.CachedMessage{Role: role, Content: messages[i].Content})
	}

	if s.cache != nil {
		sc := &cache.SessionContext{
			SessionID:  session.ID,
			ResumeText: resumeText,
			Messages:   cached,
		}
		if session.UserID != nil {
			sc.UserID = *session.UserID
		}
		if session.ResumeID != nil {
			sc.ResumeID = *session.ResumeID
		}
		if err := s.cache.SaveSession(ctx, sc); err != nil {
			logger.WithError(err).Warn("Failed to rebuild session cache", "session_id", session.ID)
		}
	}

	return history, resumeText, nil
}

func (s *ChatServiceImpl) cacheAppend(ctx context.Context, sessionID, userContent, assistantContent string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.AppendMessage(ctx, sessionID, "user", userContent); err != nil {
		logger.WithError(err).Warn("Session cache append failed", "session_id", sessionID)
		return
	}
	if err := s.cache.AppendMessage(ctx, sessionID, "assistant", assistantContent); err != nil {
		logger.WithError(err).Warn("Session cache append failed", "session_id", sessionID)
	}
}

// SetResume - привязка/отвязка резюме к активной сессии.
func (s *ChatServiceImpl) SetResume(ctx context.Context, userID, sessionID string, resumeID *string) error {
	session, err := s.getOwnedSession(userID, sessionID)
	if err != nil {
		return err
	}

	var resumeText string
	if resumeID != nil {
		resume, err := s.resumeRepo.FindByID(*resumeID)
		if err != nil || resume.UserID != userID {
			return apperrors.NewNotFoundError("chat", "Resume not found")
		}
		resumeText = resume.ContentText
	}

	if err := s.chatRepo.UpdateSessionResume(session.ID, resumeID); err != nil {
		return apperrors.InternalError(err)
	}

	if s.cache != nil {
		sc, err := s.cache.GetSession(ctx, session.ID)
		if err == nil && sc != nil {
			sc.ResumeText = resumeText
			if resumeID != nil {
				sc.ResumeID = *resumeID
			} else {
				sc.ResumeID = ""
			}
			if err := s.cache.SaveSession(ctx, sc); err != nil {
				logger.WithError(err).Warn("Failed to update session cache", "session_id", session.ID)
			}
		}
	}

	return nil
}

// UpdateStatus переводит сессию в новый статус. Сессии в статусе
// abandoned подбирает фоновая очистка, поэтому при уходе из active
// кеш контекста сразу сбрасывается.
func (s *ChatServiceImpl) UpdateStatus(ctx context.Context, userID, sessionID string, status models.ChatSessionStatus) error {
	session, err := s.getOwnedSession(userID, sessionID)
	if err != nil {
		return err
	}

	if err := s.chatRepo.UpdateSessionStatus(session.ID, status); err != nil {
		return apperrors.InternalError(err)
	}

	if status != models.ChatSessionActive {
		s.dropSessionCache(ctx, session.ID)
	}
	return nil
}

// CloseSession помечает сессию завершенной и чистит кеш.
func (s *ChatServiceImpl) CloseSession(ctx context.Context, userID, sessionID string) error {
	return s.UpdateStatus(ctx, userID, sessionID, models.ChatSessionCompleted)
}

// DeleteSession удаляет сессию вместе с сообщениями (каскад в базе)
// и записью в кеше.
func (s *ChatServiceImpl) DeleteSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.getOwnedSession(userID, sessionID)
	if err != nil {
		return err
	}

	if err := s.chatRepo.DeleteSession(session.ID); err != nil {
		return apperrors.InternalError(err)
	}
	s.dropSessionCache(ctx, session.ID)
	return nil
}

func (s *ChatServiceImpl) dropSessionCache(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteSession(ctx, sessionID); err != nil {
		logger.WithError(err).Warn("Failed to drop session cache", "session_id", sessionID)
	}
}
