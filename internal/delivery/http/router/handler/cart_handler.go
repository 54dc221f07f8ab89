package handler

import (
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderXSessionID carries the guest session token. The session_id query
// parameter is accepted as an alternative for clients that cannot set
// headers.
const HeaderXSessionID = "X-Session-Id"

// CartHandler holds dependencies for cart handlers.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// GetCart returns the caller's cart, or an empty cart if none exists yet.
func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.uc.GetCart(c.Request().Context(), callerIdentity(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart, "Cart retrieved")
}

// AddItem adds a product to the caller's cart. A newly created line answers
// 201; merging into an existing line answers 200.
func (h *CartHandler) AddItem(c echo.Context) error {
	var input *usecase.AddItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.AddItem(c.Request().Context(), callerIdentity(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	if output.Created {
		return response.Success(c, http.StatusCreated, output.Item, "Item added to cart")
	}

	return response.Success(c, http.StatusOK, output.Item, "Item quantity merged")
}

// UpdateItem overwrites a line's quantity.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "item id must be a valid UUID")
	}

	var input *usecase.UpdateItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), callerIdentity(c), itemID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Item updated")
}

// RemoveItem deletes a single line from the caller's cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "item id must be a valid UUID")
	}

	if err := h.uc.RemoveItem(c.Request().Context(), callerIdentity(c), itemID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item removed")
}

// ClearCart deletes every line in the caller's cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.uc.ClearCart(c.Request().Context(), callerIdentity(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared")
}

// callerIdentity resolves who is operating on the cart. A user id set by the
// optional auth middleware wins; otherwise the caller is a guest keyed by
// their session token. A guest without a token still gets an identity here;
// the usecase rejects it.
func callerIdentity(c echo.Context) entity.CallerIdentity {
	if userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID); ok {
		return entity.AuthenticatedCaller(userID)
	}

	sessionID := c.Request().Header.Get(HeaderXSessionID)
	if sessionID == "" {
		sessionID = c.QueryParam("session_id")
	}

	return entity.GuestCaller(sessionID)
}
