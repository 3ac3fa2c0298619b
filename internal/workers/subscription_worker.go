package workers

import (
	"context"
	"time"

	"resumehub/internal/logger"
	"resumehub/internal/models"
	"resumehub/internal/repositories"
)

type SubscriptionWorker struct {
	subRepo  repositories.SubscriptionRepository
	userRepo repositories.UserRepository
	keyRepo  repositories.APIKeyRepository
}

func NewSubscriptionWorker(
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	keyRepo repositories.APIKeyRepository,
) *SubscriptionWorker {
	return &SubscriptionWorker{
		subRepo:  subRepo,
		userRepo: userRepo,
		keyRepo:  keyRepo,
	}
}

// Start запускает фоновые задачи биллинга
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.expireSubscriptions(ctx)
	go w.resetMonthlyUsage(ctx)
}

// expireSubscriptions каждые 6 часов переводит просроченные подписки
// в expired и понижает tier пользователей до free
func (w *SubscriptionWorker) expireSubscriptions(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.runExpiry()
		}
	}
}

func (w *SubscriptionWorker) runExpiry() {
	overdue, err := w.subRepo.FindOverdueSubscriptions()
	if err != nil {
		logger.WorkerLog("subscription", "find_overdue", err)
		return
	}

	// Сначала понижаем tier, затем помечаем подписки
	for _, sub := range overdue {
		if err := w.userRepo.UpdateTier(sub.UserID, models.TierFree); err != nil {
			logger.WorkerLog("subscription", "downgrade_tier", err)
		}
	}

	n, err := w.subRepo.ExpireOverdueSubscriptions()
	logger.WorkerLog("subscription", "expire_overdue", err)
	if n > 0 {
		logger.Info("Expired overdue subscriptions", "count", n)
	}
}

// resetMonthlyUsage обнуляет месячные счетчики API-ключей в первый день месяца
func (w *SubscriptionWorker) resetMonthlyUsage(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	var lastReset time.Month

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Day() != 1 || now.Month() == lastReset {
				continue
			}
			n, err := w.keyRepo.ResetMonthlyUsage()
			logger.WorkerLog("subscription", "reset_monthly_usage", err)
			if err == nil {
				lastReset = now.Month()
				logger.Info("Reset monthly API key usage", "keys", n)
			}
		}
	}
}
