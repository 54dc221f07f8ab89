package model

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the GORM model for the payments table. A row exists only
// for payments the provider confirmed; the unique index on the payment
// intent id is the second line of defense against webhook redelivery.
type PaymentModel struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v7()"`
	UserID                uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	StripeSessionID       string          `gorm:"column:stripe_session_id;type:varchar(255);not null"`
	StripePaymentIntentID *string         `gorm:"column:stripe_payment_intent_id;type:varchar(255);uniqueIndex:idx_payments_intent_id,where:stripe_payment_intent_id IS NOT NULL"`
	CustomerEmail         string          `gorm:"column:customer_email;type:varchar(255);not null"`
	Amount                decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency              string          `gorm:"column:currency;type:varchar(8);not null"`
	Status                string          `gorm:"column:status;type:varchar(32);not null"`
	CheckoutURL           *string         `gorm:"column:checkout_url;type:text"`
	ExpiresAt             time.Time       `gorm:"column:expires_at;not null"`
	PaidAt                *time.Time      `gorm:"column:paid_at"`
	CreatedAt             time.Time       `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;not null;default:now()"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToEntity converts the persistence model to a domain entity.
func (m *PaymentModel) ToEntity() *entity.Payment {
	return &entity.Payment{
		ID:                    m.ID,
		UserID:                m.UserID,
		StripeSessionID:       m.StripeSessionID,
		StripePaymentIntentID: m.StripePaymentIntentID,
		CustomerEmail:         m.CustomerEmail,
		Amount:                m.Amount,
		Currency:              m.Currency,
		Status:                entity.PaymentStatus(m.Status),
		CheckoutURL:           m.CheckoutURL,
		ExpiresAt:             m.ExpiresAt,
		PaidAt:                m.PaidAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// FromPaymentEntity converts a domain entity to a persistence model.
func FromPaymentEntity(payment *entity.Payment) *PaymentModel {
	return &PaymentModel{
		ID:                    payment.ID,
		UserID:                payment.UserID,
		StripeSessionID:       payment.StripeSessionID,
		StripePaymentIntentID: payment.StripePaymentIntentID,
		CustomerEmail:         payment.CustomerEmail,
		Amount:                payment.Amount,
		Currency:              payment.Currency,
		Status:                string(payment.Status),
		CheckoutURL:           payment.CheckoutURL,
		ExpiresAt:             payment.ExpiresAt,
		PaidAt:                payment.PaidAt,
		CreatedAt:             payment.CreatedAt,
		UpdatedAt:             payment.UpdatedAt,
	}
}

// WebhookEventModel is the GORM model for the webhook_events table. The
// primary key is the provider's event id, so recording a redelivered event
// fails fast on the constraint.
type WebhookEventModel struct {
	EventID     string    `gorm:"column:event_id;type:varchar(255);primaryKey"`
	EventType   string    `gorm:"column:event_type;type:varchar(128);not null"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null;default:now()"`
}

// TableName specifies the table name for the WebhookEventModel.
func (WebhookEventModel) TableName() string {
	return "webhook_events"
}
