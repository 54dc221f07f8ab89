package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
//
// Concurrency rests on the store's unique constraints rather than
// read-then-write checks: cart creation and line merging both take the
// insert-first path and fall back when the constraint reports a loser.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the caller's cart. Reads are trusted lookups: a caller
// with no cart row gets an empty cart and no row is created.
func (srv *cartService) GetCart(ctx context.Context, caller entity.CallerIdentity) (*entity.Cart, error) {
	cart, err := srv.findCallerCart(ctx, caller)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return srv.emptyCart(caller), nil
		}

		return nil, err
	}

	return cart, nil
}

// AddItem adds a product to the caller's cart. The cart is created on first
// use; adding a product already in the cart merges quantities into the
// existing line, which keeps the price snapshot taken when it was created.
func (srv *cartService) AddItem(ctx context.Context, caller entity.CallerIdentity, input *usecase.AddItemInput) (*usecase.AddItemOutput, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}

	// Snapshot the current catalog price; the line keeps it until the next
	// update or a repricing pass.
	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "add to cart failed")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	cart, err := srv.resolveOrCreateCart(ctx, caller)
	if err != nil {
		return nil, err
	}

	newItem := &entity.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  input.Quantity,
		Price:     product.Price,
	}

	err = srv.cartRepo.CreateItem(ctx, newItem)
	if err == nil {
		return &usecase.AddItemOutput{Item: newItem, Created: true}, nil
	}
	if !errors.Is(err, repository.ErrDuplicateCartItem) {
		return nil, errors.Wrap(err, "failed to create cart item")
	}

	// A line for this product already exists (possibly created a moment ago
	// by a concurrent request). Fold the quantity in atomically.
	merged, err := srv.cartRepo.AddItemQuantity(ctx, cart.ID, product.ID, input.Quantity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge cart item quantity")
	}

	srv.log(ctx).Debug("Merged quantity into existing cart line",
		slog.Any("cartID", cart.ID),
		slog.Any("productID", product.ID),
		slog.Int("quantity", merged.Quantity),
	)

	return &usecase.AddItemOutput{Item: merged, Created: false}, nil
}

// UpdateItem overwrites a line's quantity and reprices it to the product's
// current catalog price. Existence is checked before ownership so that a
// missing item reads as 404 regardless of who asks.
func (srv *cartService) UpdateItem(ctx context.Context, caller entity.CallerIdentity, itemID uuid.UUID, input *usecase.UpdateItemInput) (*entity.CartItem, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}

	item, err := srv.authorizeItem(ctx, caller, itemID)
	if err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product for repricing")
	}

	updated, err := srv.cartRepo.UpdateItem(ctx, itemID, input.Quantity, product.Price)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart item update failed")
		}

		return nil, errors.Wrap(err, "failed to update cart item")
	}

	return updated, nil
}

// RemoveItem deletes a single line after verifying ownership.
func (srv *cartService) RemoveItem(ctx context.Context, caller entity.CallerIdentity, itemID uuid.UUID) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}

	if _, err := srv.authorizeItem(ctx, caller, itemID); err != nil {
		return err
	}

	if err := srv.cartRepo.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return errors.Wrap(domainerrors.ErrCartItemNotFound, "cart item removal failed")
		}

		return errors.Wrap(err, "failed to delete cart item")
	}

	return nil
}

// ClearCart deletes the caller's cart row; the lines go with it via
// cascade. Having no cart to clear is an error, unlike the read path.
func (srv *cartService) ClearCart(ctx context.Context, caller entity.CallerIdentity) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}

	cart, err := srv.findCallerCart(ctx, caller)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return errors.Wrap(domainerrors.ErrCartNotFound, "cart clear failed")
		}

		return err
	}

	if err := srv.cartRepo.Delete(ctx, cart.ID); err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			// A concurrent clear got there first.
			return errors.Wrap(domainerrors.ErrCartNotFound, "cart clear failed")
		}

		return errors.Wrap(err, "failed to delete cart")
	}

	srv.log(ctx).Debug("Cart cleared", slog.Any("cartID", cart.ID))

	return nil
}

// findCallerCart looks the cart up by the caller's key. The lookup itself
// proves ownership: user carts by user id, guest carts by session token.
func (srv *cartService) findCallerCart(ctx context.Context, caller entity.CallerIdentity) (*entity.Cart, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}

	if userID, ok := caller.UserID(); ok {
		return srv.cartRepo.FindByUserID(ctx, userID)
	}

	return srv.cartRepo.FindBySessionID(ctx, caller.SessionID())
}

// resolveOrCreateCart returns the caller's cart, creating it when absent.
// Two concurrent first-adds both try the insert; the loser hits the partial
// unique index and re-reads the winner's row.
func (srv *cartService) resolveOrCreateCart(ctx context.Context, caller entity.CallerIdentity) (*entity.Cart, error) {
	cart, err := srv.findCallerCart(ctx, caller)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to find cart")
	}

	newCart := srv.emptyCart(caller)
	err = srv.cartRepo.Create(ctx, newCart)
	if err == nil {
		return newCart, nil
	}
	if !errors.Is(err, repository.ErrDuplicateCart) {
		return nil, errors.Wrap(err, "failed to create cart")
	}

	srv.log(ctx).Debug("Lost cart creation race, re-reading winner")

	cart, err = srv.findCallerCart(ctx, caller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-read cart after duplicate insert")
	}

	return cart, nil
}

// authorizeItem loads an item and verifies the caller owns the cart it
// belongs to. Order matters: a missing item is 404 for everyone, a present
// item in someone else's cart is 403.
func (srv *cartService) authorizeItem(ctx context.Context, caller entity.CallerIdentity, itemID uuid.UUID) (*entity.CartItem, error) {
	item, err := srv.cartRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart item lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find cart item")
	}

	cart, err := srv.cartRepo.FindByID(ctx, item.CartID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cart for ownership check")
	}

	if !caller.OwnsCart(cart) {
		srv.log(ctx).Warn("Cart ownership violation",
			slog.Any("cartID", cart.ID),
			slog.Any("itemID", itemID),
		)

		return nil, errors.Wrap(domainerrors.ErrCartOwnershipViolation, "cart item access denied")
	}

	return item, nil
}

func (srv *cartService) emptyCart(caller entity.CallerIdentity) *entity.Cart {
	cart := &entity.Cart{Items: []*entity.CartItem{}}
	if userID, ok := caller.UserID(); ok {
		cart.UserID = &userID
	} else {
		sessionID := caller.SessionID()
		cart.SessionID = &sessionID
	}

	return cart
}

// requireIdentity rejects guests that presented no session token. The
// handler already enforces this for its own routes; this is the layer
// boundary's check.
func requireIdentity(caller entity.CallerIdentity) error {
	if !caller.IsAuthenticated() && caller.SessionID() == "" {
		return errors.Wrap(domainerrors.ErrMissingSessionID, "cart identity unresolved")
	}

	return nil
}
