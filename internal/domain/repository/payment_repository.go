package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrPaymentNotFound is returned when a payment lookup matches no row.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicatePayment is returned when an insert collides with an
	// already-recorded payment intent.
	ErrDuplicatePayment = errors.New("payment already recorded for intent")
)

// PaymentRepository defines the persistence operations for reconciled payments.
type PaymentRepository interface {
	// Create inserts a payment record. A second insert for the same payment
	// intent is reported as ErrDuplicatePayment.
	Create(ctx context.Context, payment *entity.Payment) error

	// ExistsByPaymentIntentID reports whether a payment for the given
	// provider intent has already been recorded.
	ExistsByPaymentIntentID(ctx context.Context, paymentIntentID string) (bool, error)

	// ListByUserID retrieves a user's payments, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error)
}
