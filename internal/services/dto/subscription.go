package dto

import (
	"time"

	"resumehub/internal/models"
)

// SubscribeRequest - оформление подписки на план
type SubscribeRequest struct {
	PlanID    string `json:"plan_id" binding:"required,uuid"`
	AutoRenew bool   `json:"auto_renew"`
}

// PlanResponse - тарифный план
type PlanResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Tier     models.SubscriptionTier `json:"tier"`
	Price    float64                 `json:"price"`
	Currency string                  `json:"currency"`
	Interval string                  `json:"interval"`
	Features map[string]interface{}  `json:"features"`
	Limits   map[string]interface{}  `json:"limits"`
}

// SubscriptionResponse - подписка пользователя
type SubscriptionResponse struct {
	ID          string                    `json:"id"`
	Plan        PlanResponse              `json:"plan"`
	Status      models.SubscriptionStatus `json:"status"`
	StartDate   time.Time                 `json:"start_date"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	AutoRenew   bool                      `json:"auto_renew"`
	CancelledAt *time.Time                `json:"cancelled_at,omitempty"`
}

// CheckoutResponse - ссылка на оплату
type CheckoutResponse struct {
	InvoiceID   string  `json:"invoice_id"`
	CheckoutURL string  `json:"checkout_url"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// PaymentWebhookRequest - уведомление платежного провайдера
type PaymentWebhookRequest struct {
	InvoiceID string  `json:"invoice_id" binding:"required"`
	Status    string  `json:"status" binding:"required,oneof=paid failed refunded"`
	Amount    float64 `json:"amount"`
	Signature string  `json:"signature" binding:"required"`
}

// UsageResponse - текущее использование лимитов плана
type UsageResponse struct {
	Tier        models.SubscriptionTier `json:"tier"`
	ResumeCount int64                   `json:"resume_count"`
	ResumeLimit int                     `json:"resume_limit"`
	ChatCount   int64                   `json:"chat_count"`
	ChatLimit   int                     `json:"chat_limit"`
}
