package handler

import (
	"io"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderStripeSignature is the provider's webhook signature header.
const HeaderStripeSignature = "Stripe-Signature"

// WebhookHandler ingests provider webhook deliveries.
type WebhookHandler struct {
	uc usecase.WebhookUsecase
}

// NewWebhookHandler is the constructor for WebhookHandler, injected by Fx.
func NewWebhookHandler(uc usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// HandleStripeWebhook verifies and processes one provider event. The raw
// body is read before any decoding; signature verification needs the exact
// bytes the provider signed.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "failed to read webhook payload")
	}

	signature := c.Request().Header.Get(HeaderStripeSignature)

	if err := h.uc.HandleEvent(c.Request().Context(), payload, signature); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Webhook processed")
}
