package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"resumehub/internal/models"
	"resumehub/internal/repositories"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"
)

type fakeSubRepo struct {
	repositories.SubscriptionRepository
	plans  []models.SubscriptionPlan
	plan   *models.SubscriptionPlan
	active *models.UserSubscription

	payment *models.PaymentTransaction
	subByID *models.UserSubscription

	createdSub     *models.UserSubscription
	createdPayment *models.PaymentTransaction
	updatedSub     *models.UserSubscription
	cancelledIDs   []string
	paymentUpdates []models.PaymentStatus
}

func (f *fakeSubRepo) FindActivePlans() ([]models.SubscriptionPlan, error) {
	return f.plans, nil
}

func (f *fakeSubRepo) FindPlanByID(id string) (*models.SubscriptionPlan, error) {
	if f.plan == nil || f.plan.ID != id {
		return nil, repositories.ErrPlanNotFound
	}
	return f.plan, nil
}

func (f *fakeSubRepo) FindActiveByUserID(userID string) (*models.UserSubscription, error) {
	if f.active == nil {
		return nil, repositories.ErrSubscriptionNotFound
	}
	return f.active, nil
}

func (f *fakeSubRepo) CreateSubscription(sub *models.UserSubscription) error {
	sub.ID = "sub-new"
	f.createdSub = sub
	return nil
}

func (f *fakeSubRepo) CreatePayment(payment *models.PaymentTransaction) error {
	f.createdPayment = payment
	return nil
}

func (f *fakeSubRepo) CancelSubscription(id string) error {
	f.cancelledIDs = append(f.cancelledIDs, id)
	return nil
}

func (f *fakeSubRepo) FindPaymentByInvoiceID(invoiceID string) (*models.PaymentTransaction, error) {
	if f.payment == nil || f.payment.InvoiceID != invoiceID {
		return nil, repositories.ErrPaymentNotFound
	}
	return f.payment, nil
}

func (f *fakeSubRepo) FindSubscriptionByID(id string) (*models.UserSubscription, error) {
	if f.subByID == nil {
		return nil, repositories.ErrSubscriptionNotFound
	}
	return f.subByID, nil
}

func (f *fakeSubRepo) UpdateSubscription(sub *models.UserSubscription) error {
	f.updatedSub = sub
	return nil
}

func (f *fakeSubRepo) UpdatePaymentStatus(id string, status models.PaymentStatus, paidAt *time.Time) error {
	f.paymentUpdates = append(f.paymentUpdates, status)
	return nil
}

type fakeResumeRepo struct {
	repositories.ResumeRepository
	count int64
}

func (f *fakeResumeRepo) CountByUserID(userID string) (int64, error) {
	return f.count, nil
}

type fakeChatRepo struct {
	repositories.ChatRepository
	sessionCount int64
}

func (f *fakeChatRepo) FindSessionsByUserID(userID string, limit, offset int) ([]models.ChatSession, int64, error) {
	return nil, f.sessionCount, nil
}

const testWebhookSecret = "whsec_test"

func newSubService(subRepo *fakeSubRepo, userRepo *fakeUserRepo) SubscriptionService {
	return NewSubscriptionService(subRepo, userRepo, &fakeResumeRepo{}, &fakeChatRepo{},
		"https://pay.example.com/checkout", testWebhookSecret)
}

func proPlan() *models.SubscriptionPlan {
	plan := &models.SubscriptionPlan{
		Name:     "Pro",
		Tier:     models.TierPro,
		Price:    19.99,
		Currency: "USD",
		Interval: "monthly",
	}
	plan.ID = "plan-pro"
	return plan
}

func signWebhook(invoiceID, status string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%s:%s", invoiceID, status)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestListPlans_DecodesJSONColumns(t *testing.T) {
	t.Parallel()

	plan := models.SubscriptionPlan{
		Name:     "Free",
		Tier:     models.TierFree,
		Interval: "monthly",
		Features: datatypes.JSON(`{"ai_chat": true}`),
		Limits:   datatypes.JSON(`{"resumes": 3}`),
	}
	svc := newSubService(&fakeSubRepo{plans: []models.SubscriptionPlan{plan}}, &fakeUserRepo{})

	got, err := svc.ListPlans()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, true, got[0].Features["ai_chat"])
	assert.Equal(t, float64(3), got[0].Limits["resumes"])
}

func TestSubscribe_FreePlanActivatesImmediately(t *testing.T) {
	t.Parallel()

	freePlan := &models.SubscriptionPlan{Name: "Free", Tier: models.TierFree, Price: 0, Currency: "USD", Interval: "monthly"}
	freePlan.ID = "plan-free"
	subRepo := &fakeSubRepo{plan: freePlan}
	userRepo := &fakeUserRepo{}
	svc := newSubService(subRepo, userRepo)

	resp, err := svc.Subscribe("user-1", &dto.SubscribeRequest{PlanID: "plan-free"})
	require.NoError(t, err)

	// Оплаты нет: подписка сразу активна, тариф обновлен
	assert.Empty(t, resp.InvoiceID)
	assert.Empty(t, resp.CheckoutURL)
	assert.Zero(t, resp.Amount)
	assert.Nil(t, subRepo.createdPayment)

	require.NotNil(t, subRepo.createdSub)
	assert.Equal(t, models.SubscriptionStatusActive, subRepo.createdSub.Status)
	require.NotNil(t, subRepo.createdSub.EndDate)
	assert.Equal(t, models.TierFree, userRepo.tierSets["user-1"])
}

func TestSubscribe_PaidPlanCreatesPendingCheckout(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubRepo{plan: proPlan()}
	userRepo := &fakeUserRepo{}
	svc := newSubService(subRepo, userRepo)

	resp, err := svc.Subscribe("user-1", &dto.SubscribeRequest{PlanID: "plan-pro", AutoRenew: true})
	require.NoError(t, err)

	require.NotNil(t, subRepo.createdSub)
	assert.Equal(t, models.SubscriptionStatusPending, subRepo.createdSub.Status)
	assert.True(t, subRepo.createdSub.AutoRenew)

	require.NotNil(t, subRepo.createdPayment)
	assert.Equal(t, 19.99, subRepo.createdPayment.Amount)
	assert.Equal(t, "sub-new", subRepo.createdPayment.SubscriptionID)
	assert.Equal(t, resp.InvoiceID, subRepo.createdPayment.InvoiceID)

	assert.Equal(t, "https://pay.example.com/checkout/"+resp.InvoiceID, resp.CheckoutURL)
	// Тариф до оплаты не меняется
	assert.Empty(t, userRepo.tierSets)
}

func TestSubscribe_SamePlanConflict(t *testing.T) {
	t.Parallel()

	active := &models.UserSubscription{PlanID: "plan-pro", Status: models.SubscriptionStatusActive}
	active.ID = "sub-old"
	subRepo := &fakeSubRepo{plan: proPlan(), active: active}
	svc := newSubService(subRepo, &fakeUserRepo{})

	_, err := svc.Subscribe("user-1", &dto.SubscribeRequest{PlanID: "plan-pro"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	t.Parallel()

	svc := newSubService(&fakeSubRepo{}, &fakeUserRepo{})

	_, err := svc.Subscribe("user-1", &dto.SubscribeRequest{PlanID: "nope"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCancel(t *testing.T) {
	t.Parallel()

	t.Run("no active subscription", func(t *testing.T) {
		t.Parallel()
		svc := newSubService(&fakeSubRepo{}, &fakeUserRepo{})
		assert.ErrorIs(t, svc.Cancel("user-1"), apperrors.ErrNoActiveSubscription)
	})

	t.Run("already cancelled", func(t *testing.T) {
		t.Parallel()
		active := &models.UserSubscription{Status: models.SubscriptionStatusCancelled}
		svc := newSubService(&fakeSubRepo{active: active}, &fakeUserRepo{})
		assert.ErrorIs(t, svc.Cancel("user-1"), apperrors.ErrSubscriptionCancelled)
	})

	t.Run("active subscription", func(t *testing.T) {
		t.Parallel()
		active := &models.UserSubscription{Status: models.SubscriptionStatusActive}
		active.ID = "sub-1"
		subRepo := &fakeSubRepo{active: active}
		svc := newSubService(subRepo, &fakeUserRepo{})

		require.NoError(t, svc.Cancel("user-1"))
		assert.Equal(t, []string{"sub-1"}, subRepo.cancelledIDs)
	})
}

func TestPaymentWebhook_InvalidSignature(t *testing.T) {
	t.Parallel()

	svc := newSubService(&fakeSubRepo{}, &fakeUserRepo{})

	err := svc.HandlePaymentWebhook(&dto.PaymentWebhookRequest{
		InvoiceID: "inv-1", Status: "paid", Signature: "deadbeef",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestPaymentWebhook_PaidActivatesSubscription(t *testing.T) {
	t.Parallel()

	payment := &models.PaymentTransaction{
		SubscriptionID: "sub-1",
		InvoiceID:      "inv-1",
		Status:         models.PaymentStatusPending,
	}
	sub := &models.UserSubscription{
		UserID: "user-1",
		Status: models.SubscriptionStatusPending,
		Plan:   *proPlan(),
	}
	sub.ID = "sub-1"
	subRepo := &fakeSubRepo{payment: payment, subByID: sub}
	userRepo := &fakeUserRepo{}
	svc := newSubService(subRepo, userRepo)

	err := svc.HandlePaymentWebhook(&dto.PaymentWebhookRequest{
		InvoiceID: "inv-1", Status: "paid", Signature: signWebhook("inv-1", "paid"),
	})
	require.NoError(t, err)

	assert.Equal(t, []models.PaymentStatus{models.PaymentStatusPaid}, subRepo.paymentUpdates)
	require.NotNil(t, subRepo.updatedSub)
	assert.Equal(t, models.SubscriptionStatusActive, subRepo.updatedSub.Status)
	require.NotNil(t, subRepo.updatedSub.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *subRepo.updatedSub.EndDate, time.Minute)
	assert.Equal(t, models.TierPro, userRepo.tierSets["user-1"])
}

func TestPaymentWebhook_ReplayIgnored(t *testing.T) {
	t.Parallel()

	payment := &models.PaymentTransaction{InvoiceID: "inv-1", Status: models.PaymentStatusPaid}
	subRepo := &fakeSubRepo{payment: payment}
	svc := newSubService(subRepo, &fakeUserRepo{})

	err := svc.HandlePaymentWebhook(&dto.PaymentWebhookRequest{
		InvoiceID: "inv-1", Status: "paid", Signature: signWebhook("inv-1", "paid"),
	})
	require.NoError(t, err)
	assert.Empty(t, subRepo.paymentUpdates)
	assert.Nil(t, subRepo.updatedSub)
}

func TestPaymentWebhook_FailedMarksPayment(t *testing.T) {
	t.Parallel()

	payment := &models.PaymentTransaction{InvoiceID: "inv-1", Status: models.PaymentStatusPending}
	subRepo := &fakeSubRepo{payment: payment}
	svc := newSubService(subRepo, &fakeUserRepo{})

	err := svc.HandlePaymentWebhook(&dto.PaymentWebhookRequest{
		InvoiceID: "inv-1", Status: "failed", Signature: signWebhook("inv-1", "failed"),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.PaymentStatus{models.PaymentStatusFailed}, subRepo.paymentUpdates)
}

func TestGetUsage(t *testing.T) {
	t.Parallel()

	userRepo := &fakeUserRepo{user: &models.User{Tier: models.TierPro}}
	svc := NewSubscriptionService(&fakeSubRepo{}, userRepo,
		&fakeResumeRepo{count: 7}, &fakeChatRepo{sessionCount: 12},
		"https://pay.example.com/checkout", testWebhookSecret)

	usage, err := svc.GetUsage("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, usage.Tier)
	assert.Equal(t, int64(7), usage.ResumeCount)
	assert.Equal(t, resumeLimits[models.TierPro], usage.ResumeLimit)
	assert.Equal(t, int64(12), usage.ChatCount)
}
