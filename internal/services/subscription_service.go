package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

type SubscriptionService interface {
	ListPlans() ([]dto.PlanResponse, error)
	GetCurrent(userID string) (*dto.SubscriptionResponse, error)
	Subscribe(userID string, req *dto.SubscribeRequest) (*dto.CheckoutResponse, error)
	Cancel(userID string) error
	GetUsage(userID string) (*dto.UsageResponse, error)
	HandlePaymentWebhook(req *dto.PaymentWebhookRequest) error
}

type SubscriptionServiceImpl struct {
	subRepo         repositories.SubscriptionRepository
	userRepo        repositories.UserRepository
	resumeRepo      repositories.ResumeRepository
	chatRepo        repositories.ChatRepository
	checkoutBaseURL string
	webhookSecret   string
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	resumeRepo repositories.ResumeRepository,
	chatRepo repositories.ChatRepository,
	checkoutBaseURL, webhookSecret string,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subRepo:         subRepo,
		userRepo:        userRepo,
		resumeRepo:      resumeRepo,
		chatRepo:        chatRepo,
		checkoutBaseURL: checkoutBaseURL,
		webhookSecret:   webhookSecret,
	}
}

func (s *SubscriptionServiceImpl) ListPlans() ([]dto.PlanResponse, error) {
	plans, err := s.subRepo.FindActivePlans()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		result = append(result, planToResponse(&plans[i]))
	}
	return result, nil
}

func planToResponse(plan *models.SubscriptionPlan) dto.PlanResponse {
	resp := dto.PlanResponse{
		ID:       plan.ID,
		Name:     plan.Name,
		Tier:     plan.Tier,
		Price:    plan.Price,
		Currency: plan.Currency,
		Interval: plan.Interval,
	}
	_ = json.Unmarshal(plan.Features, &resp.Features)
	_ = json.Unmarshal(plan.Limits, &resp.Limits)
	return resp
}

func (s *SubscriptionServiceImpl) GetCurrent(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindActiveByUserID(userID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return nil, apperrors.ErrNoActiveSubscription
		}
		return nil, apperrors.InternalError(err)
	}
	return subscriptionToResponse(sub), nil
}

func subscriptionToResponse(sub *models.UserSubscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:          sub.ID,
		Plan:        planToResponse(&sub.Plan),
		Status:      sub.Status,
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
		AutoRenew:   sub.AutoRenew,
		CancelledAt: sub.CancelledAt,
	}
}

// Subscribe - создание pending-подписки и счета на оплату. Активация
// происходит в HandlePaymentWebhook после подтверждения оплаты.
func (s *SubscriptionServiceImpl) Subscribe(userID string, req *dto.SubscribeRequest) (*dto.CheckoutResponse, error) {
	plan, err := s.subRepo.FindPlanByID(req.PlanID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("subscription", "Plan not found")
	}

	if existing, err := s.subRepo.FindActiveByUserID(userID); err == nil && existing.PlanID == plan.ID {
		return nil, apperrors.NewConflictError("subscription", "Already subscribed to this plan")
	}

	// Бесплатный план активируется сразу, без оплаты
	if plan.Price == 0 {
		if err := s.activate(userID, plan, true); err != nil {
			return nil, err
		}
		return &dto.CheckoutResponse{Amount: 0, Currency: plan.Currency}, nil
	}

	sub := &models.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusPending,
		StartDate: time.Now(),
		AutoRenew: req.AutoRenew,
	}
	if err := s.subRepo.CreateSubscription(sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	invoiceID := uuid.NewString()
	payment := &models.PaymentTransaction{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		Status:         models.PaymentStatusPending,
		InvoiceID:      invoiceID,
	}
	if err := s.subRepo.CreatePayment(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CheckoutResponse{
		InvoiceID:   invoiceID,
		CheckoutURL: fmt.Sprintf("%s/%s", s.checkoutBaseURL, invoiceID),
		Amount:      plan.Price,
		Currency:    plan.Currency,
	}, nil
}

func (s *SubscriptionServiceImpl) activate(userID string, plan *models.SubscriptionPlan, create bool) error {
	// Действующая подписка другого плана отменяется
	if existing, err := s.subRepo.FindActiveByUserID(userID); err == nil {
		if err := s.subRepo.CancelSubscription(existing.ID); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if create {
		end := periodEnd(plan.Interval)
		sub := &models.UserSubscription{
			UserID:    userID,
			PlanID:    plan.ID,
			Status:    models.SubscriptionStatusActive,
			StartDate: time.Now(),
			EndDate:   end,
			AutoRenew: true,
		}
		if err := s.subRepo.CreateSubscription(sub); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if err := s.userRepo.UpdateTier(userID, plan.Tier); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func periodEnd(interval string) *time.Time {
	var end time.Time
	switch interval {
	case "yearly":
		end = time.Now().AddDate(1, 0, 0)
	default:
		end = time.Now().AddDate(0, 1, 0)
	}
	return &end
}

// Cancel - отмена действующей подписки. Доступ по тарифу сохраняется до
// конца оплаченного периода, но автопродление выключается.
func (s *SubscriptionServiceImpl) Cancel(userID string) error {
	sub, err := s.subRepo.FindActiveByUserID(userID)
	if err != nil {
		if err == repositories.ErrSubscriptionNotFound {
			return apperrors.ErrNoActiveSubscription
		}
		return apperrors.InternalError(err)
	}
	if sub.Status == models.SubscriptionStatusCancelled {
		return apperrors.ErrSubscriptionCancelled
	}
	if err := s.subRepo.CancelSubscription(sub.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *SubscriptionServiceImpl) GetUsage(userID string) (*dto.UsageResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("subscription", "User not found")
	}

	resumeCount, err := s.resumeRepo.CountByUserID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	_, chatCount, err := s.chatRepo.FindSessionsByUserID(userID, 1, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UsageResponse{
		Tier:        user.Tier,
		ResumeCount: resumeCount,
		ResumeLimit: resumeLimits[user.Tier],
		ChatCount:   chatCount,
		ChatLimit:   -1,
	}
	return resp, nil
}

// HandlePaymentWebhook обрабатывает уведомление платежного провайдера.
// Подпись - HMAC-SHA256 от "<invoice_id>:<status>" на webhook-секрете.
func (s *SubscriptionServiceImpl) HandlePaymentWebhook(req *dto.PaymentWebhookRequest) error {
	if !s.verifySignature(req) {
		return apperrors.NewUnauthorizedError("Invalid webhook signature")
	}

	payment, err := s.subRepo.FindPaymentByInvoiceID(req.InvoiceID)
	if err != nil {
		return apperrors.NewNotFoundError("subscription", "Invoice not found")
	}
	// Повторная доставка того же уведомления игнорируется
	if payment.Status != models.PaymentStatusPending {
		return nil
	}

	switch req.Status {
	case "paid":
		now := time.Now()
		if err := s.subRepo.UpdatePaymentStatus(payment.ID, models.PaymentStatusPaid, &now); err != nil {
			return apperrors.InternalError(err)
		}
		sub, err := s.subRepo.FindSubscriptionByID(payment.SubscriptionID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		// Другие активные подписки пользователя гасятся
		if existing, err := s.subRepo.FindActiveByUserID(sub.UserID); err == nil && existing.ID != sub.ID {
			if err := s.subRepo.CancelSubscription(existing.ID); err != nil {
				return apperrors.InternalError(err)
			}
		}
		sub.Status = models.SubscriptionStatusActive
		sub.EndDate = periodEnd(sub.Plan.Interval)
		if err := s.subRepo.UpdateSubscription(sub); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.userRepo.UpdateTier(sub.UserID, sub.Plan.Tier); err != nil {
			return apperrors.InternalError(err)
		}
	case "failed", "refunded":
		status := models.PaymentStatusFailed
		if req.Status == "refunded" {
			status = models.PaymentStatusRefunded
		}
		if err := s.subRepo.UpdatePaymentStatus(payment.ID, status, nil); err != nil {
			return apperrors.InternalError(err)
		}
	}

	return nil
}

func (s *SubscriptionServiceImpl) verifySignature(req *dto.PaymentWebhookRequest) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	fmt.Fprintf(mac, "%s:%s", req.InvoiceID, req.Status)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(req.Signature))
}
