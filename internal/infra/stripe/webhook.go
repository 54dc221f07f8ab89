package stripe

import (
	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/stripe/stripe-go/v82/webhook"
)

type webhookVerifier struct {
	signingSecret string
}

// NewWebhookVerifier creates a WebhookVerifier checking Stripe's signature
// scheme against the endpoint's signing secret.
func NewWebhookVerifier(cfg *config.Config) service.WebhookVerifier {
	secret := ""
	if cfg.Stripe != nil {
		secret = cfg.Stripe.WebhookSecret
	}

	return &webhookVerifier{signingSecret: secret}
}

func (v *webhookVerifier) VerifyAndParse(payload []byte, signature string) (*service.ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, v.signingSecret)
	if err != nil {
		return nil, errors.Wrap(err, "stripe: verify webhook signature")
	}

	return &service.ProviderEvent{
		ID:   event.ID,
		Type: string(event.Type),
		Data: event.Data.Raw,
	}, nil
}
