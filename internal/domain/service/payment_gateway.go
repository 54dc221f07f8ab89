package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentIntent is the provider-side handle returned when a checkout begins.
// The client secret is handed to the frontend to complete the payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// ProviderEvent is a verified webhook event from the payment provider.
type ProviderEvent struct {
	ID   string
	Type string
	Data []byte
}

// PaymentGateway abstracts the payment provider used at checkout time.
type PaymentGateway interface {
	// CreateCustomer registers the user with the provider and returns the
	// provider-side customer ID.
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	// CreatePaymentIntent opens a payment for the given amount in major
	// currency units. The receipt email ties the eventual success event
	// back to a local user.
	CreatePaymentIntent(ctx context.Context, customerID string, amount decimal.Decimal, currency, receiptEmail string) (*PaymentIntent, error)
}

// WebhookVerifier checks webhook authenticity before any event is trusted.
type WebhookVerifier interface {
	// VerifyAndParse validates the payload signature and returns the parsed
	// event. Payloads failing verification never reach the application.
	VerifyAndParse(payload []byte, signature string) (*ProviderEvent, error)
}
