package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddItemInput defines the data required to add a product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// AddItemOutput reports the resulting line and whether it was newly created
// (as opposed to merged into an existing line). The delivery layer maps
// Created to the response status.
type AddItemOutput struct {
	Item    *entity.CartItem `json:"item"`
	Created bool             `json:"-"`
}

// UpdateItemInput overwrites a line's quantity. The line is repriced to the
// product's current price at the same time.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartUsecase defines cart operations. Every method takes the caller's
// resolved identity; ownership of existing carts and items is verified
// against it, and existence is checked before ownership.
type CartUsecase interface {
	// GetCart returns the caller's cart. A caller without a cart gets an
	// empty cart, not an error; reads never create rows.
	GetCart(ctx context.Context, caller entity.CallerIdentity) (*entity.Cart, error)

	// AddItem adds a product to the caller's cart, creating the cart on
	// first use and merging quantity into an existing line for the same
	// product.
	AddItem(ctx context.Context, caller entity.CallerIdentity, input *AddItemInput) (*AddItemOutput, error)

	// UpdateItem overwrites a line's quantity and refreshes its price
	// snapshot from the catalog.
	UpdateItem(ctx context.Context, caller entity.CallerIdentity, itemID uuid.UUID, input *UpdateItemInput) (*entity.CartItem, error)

	// RemoveItem deletes a single line.
	RemoveItem(ctx context.Context, caller entity.CallerIdentity, itemID uuid.UUID) error

	// ClearCart deletes every line in the caller's cart.
	ClearCart(ctx context.Context, caller entity.CallerIdentity) error
}
