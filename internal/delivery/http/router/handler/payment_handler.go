package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PaymentHandler holds dependencies for checkout and payment history handlers.
type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateCheckoutSession opens a payment intent for the authenticated user.
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.CheckoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Checkout(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Checkout session created")
}

// ListPayments returns the authenticated user's payment history.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	payments, err := h.uc.ListPayments(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "Payments retrieved")
}
