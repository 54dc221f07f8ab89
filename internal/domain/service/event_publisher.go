package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentEvent is the message fanned out to downstream consumers after a
// payment has been reconciled.
type PaymentEvent struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	UserID        uuid.UUID       `json:"user_id"`
	CustomerEmail string          `json:"customer_email"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EventPublisher fans payment events out to interested consumers.
// Publishing is best-effort; a failed publish must not fail the
// reconciliation that produced the event.
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event *PaymentEvent) error

	// Close releases the underlying connection.
	Close() error
}
