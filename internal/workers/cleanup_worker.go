package workers

import (
	"context"
	"time"

	"resumehub/internal/logger"
	"resumehub/internal/repositories"
)

const (
	loginAttemptRetention  = 30 * 24 * time.Hour
	abandonedSessionCutoff = 30 * 24 * time.Hour
	cleanupInterval        = 24 * time.Hour
)

type CleanupWorker struct {
	userRepo repositories.UserRepository
	chatRepo repositories.ChatRepository
}

func NewCleanupWorker(userRepo repositories.UserRepository, chatRepo repositories.ChatRepository) *CleanupWorker {
	return &CleanupWorker{
		userRepo: userRepo,
		chatRepo: chatRepo,
	}
}

// Start запускает ежедневную очистку устаревших данных
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *CleanupWorker) cleanup() {
	err := w.userRepo.CleanExpiredRefreshTokens()
	logger.WorkerLog("cleanup", "refresh_tokens", err)

	err = w.userRepo.CleanOldLoginAttempts(time.Now().Add(-loginAttemptRetention))
	logger.WorkerLog("cleanup", "login_attempts", err)

	n, err := w.chatRepo.DeleteAbandonedSessions(time.Now().Add(-abandonedSessionCutoff))
	logger.WorkerLog("cleanup", "abandoned_sessions", err)
	if n > 0 {
		logger.Info("Deleted abandoned chat sessions", "count", n)
	}
}
