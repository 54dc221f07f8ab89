package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutInput defines the data required to open a checkout.
type CheckoutInput struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency"`
}

// CheckoutOutput hands the provider references back to the frontend.
type CheckoutOutput struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

// PaymentUsecase defines checkout-time payment operations.
type PaymentUsecase interface {
	// Checkout opens a payment intent with the provider for the given
	// amount, registering the user as a provider customer on first use.
	Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*CheckoutOutput, error)

	// ListPayments returns the user's reconciled payments, newest first.
	ListPayments(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error)
}

// WebhookUsecase ingests provider webhook deliveries.
type WebhookUsecase interface {
	// HandleEvent verifies the payload signature, deduplicates by event id
	// and dispatches on event type. Unknown event types are acknowledged
	// without side effects.
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}
