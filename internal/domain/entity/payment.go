package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the provider-side lifecycle of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusExpired    PaymentStatus = "expired"
)

// Payment records a reconciled provider payment. Rows are created only on
// receipt of a provider success event, never at checkout-intent time.
// Amount is in major currency units (provider events carry minor units;
// the conversion happens at ingestion).
type Payment struct {
	ID                    uuid.UUID       `json:"id"`
	UserID                uuid.UUID       `json:"user_id"`
	StripeSessionID       string          `json:"stripe_session_id"`
	StripePaymentIntentID *string         `json:"stripe_payment_intent_id,omitempty"`
	CustomerEmail         string          `json:"customer_email"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Status                PaymentStatus   `json:"status"`
	CheckoutURL           *string         `json:"checkout_url,omitempty"`
	ExpiresAt             time.Time       `json:"expires_at"` // Stamped at creation; currently informational only.
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// IsPaid reports whether the payment actually settled: a succeeded status
// alone is not enough, the paid timestamp must be present.
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusSucceeded && p.PaidAt != nil
}

// IsPending reports whether the payment is still in flight.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusProcessing
}

// IsFailed reports whether the payment terminally failed.
func (p *Payment) IsFailed() bool {
	switch p.Status {
	case PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusExpired:
		return true
	default:
		return false
	}
}
