// Package stripe adapts the Stripe SDK to the domain's payment interfaces.
package stripe

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
	stripesdk "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// minorUnitFactor converts major currency units to the smallest unit the
// provider bills in. Zero-decimal currencies are not supported.
var minorUnitFactor = decimal.NewFromInt(100)

type gateway struct{}

// NewGateway creates a PaymentGateway backed by the Stripe API. The API key
// is installed process-wide, which is how the SDK expects to be configured.
func NewGateway(cfg *config.Config) service.PaymentGateway {
	if cfg.Stripe != nil {
		stripesdk.Key = cfg.Stripe.SecretKey
	}

	return &gateway{}
}

func (g *gateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripesdk.CustomerParams{
		Params: stripesdk.Params{Context: ctx},
		Email:  stripesdk.String(email),
		Name:   stripesdk.String(name),
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", errors.Wrap(err, "stripe: create customer")
	}

	return cust.ID, nil
}

func (g *gateway) CreatePaymentIntent(ctx context.Context, customerID string, amount decimal.Decimal, currency, receiptEmail string) (*service.PaymentIntent, error) {
	minorUnits := amount.Mul(minorUnitFactor).IntPart()

	params := &stripesdk.PaymentIntentParams{
		Params:       stripesdk.Params{Context: ctx},
		Amount:       stripesdk.Int64(minorUnits),
		Currency:     stripesdk.String(currency),
		Customer:     stripesdk.String(customerID),
		ReceiptEmail: stripesdk.String(receiptEmail),
		AutomaticPaymentMethods: &stripesdk.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripesdk.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "stripe: create payment intent")
	}

	return &service.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
