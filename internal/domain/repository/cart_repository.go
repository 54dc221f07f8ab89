package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrCartNotFound is returned when a cart lookup matches no row.
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartItemNotFound is returned when a cart item lookup matches no row.
	ErrCartItemNotFound = errors.New("cart item not found")

	// ErrDuplicateCart is returned when an insert collides with the one-cart-per-owner
	// constraint. Callers should re-read the winning row.
	ErrDuplicateCart = errors.New("cart already exists for owner")

	// ErrDuplicateCartItem is returned when an insert collides with the
	// one-line-per-product constraint. Callers should fall back to an
	// atomic quantity increment.
	ErrDuplicateCartItem = errors.New("cart item already exists for product")
)

// CartRepository defines the persistence operations for carts and their items.
//
// The duplicate-key sentinels above are part of the contract: concurrent
// get-or-create and merge-on-add both rely on the database's unique
// constraints rather than read-then-write checks.
type CartRepository interface {
	// FindByID retrieves a cart with its items preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)

	// FindByUserID retrieves the cart owned by a user, items preloaded.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// FindBySessionID retrieves the cart owned by a guest session, items preloaded.
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error)

	// Create inserts a new cart. A collision with an existing cart for the
	// same owner is reported as ErrDuplicateCart.
	Create(ctx context.Context, cart *entity.Cart) error

	// Delete removes a cart and, via cascade, its items.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindItemByID retrieves a single cart item.
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error)

	// CreateItem inserts a new line. A collision with an existing line for
	// the same product is reported as ErrDuplicateCartItem.
	CreateItem(ctx context.Context, item *entity.CartItem) error

	// AddItemQuantity atomically increments the quantity of the line for
	// (cartID, productID), returning the updated line. The line keeps its
	// existing price snapshot.
	AddItemQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) (*entity.CartItem, error)

	// UpdateItem overwrites a line's quantity and unit price.
	UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, price decimal.Decimal) (*entity.CartItem, error)

	// DeleteItem removes a single line.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// ResyncItemPrices rewrites stale line prices from the product catalog
	// for up to batchSize lines starting after the given item ID, returning
	// the number of lines touched and the last item ID visited. A zero
	// count with a nil error means the scan is complete.
	ResyncItemPrices(ctx context.Context, afterItemID uuid.UUID, batchSize int) (int64, uuid.UUID, error)
}
