package postgres

import (
	"bytes"
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// cartRepository implements the repository.CartRepository interface.
//
// Uniqueness of carts per owner and of lines per product is enforced by the
// database constraints declared on the models; this repository only
// translates constraint violations into the domain sentinels the
// application layer races on.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{
		db: db,
	}
}

// FindByID retrieves a cart with its items.
func (repo *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByUserID retrieves the cart owned by a user.
func (repo *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	return repo.findOne(ctx, "user_id = ?", userID)
}

// FindBySessionID retrieves the cart owned by a guest session.
func (repo *cartRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	return repo.findOne(ctx, "session_id = ?", sessionID)
}

func (repo *cartRepository) findOne(ctx context.Context, cond string, arg any) (*entity.Cart, error) {
	var cartM model.CartModel

	if err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Where(cond, arg).
		First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart")
	}

	return cartM.ToEntity(), nil
}

// Create inserts a new cart. Losing the insert race against another request
// for the same owner surfaces as ErrDuplicateCart.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := model.FromCartEntity(cart)

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCart
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	cart.ID = cartM.ID
	cart.CreatedAt = cartM.CreatedAt
	cart.UpdatedAt = cartM.UpdatedAt

	return nil
}

// Delete removes a cart; its items go with it via cascade.
func (repo *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CartModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete cart")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartNotFound
	}

	return nil
}

// FindItemByID retrieves a single cart item.
func (repo *cartRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item by ID")
	}

	return itemM.ToEntity(), nil
}

// CreateItem inserts a new line. Losing the insert race against another add
// of the same product surfaces as ErrDuplicateCartItem.
func (repo *cartRepository) CreateItem(ctx context.Context, item *entity.CartItem) error {
	itemM := model.FromCartItemEntity(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCartItem
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// AddItemQuantity folds a new add into the existing line for the product in
// one statement. Two concurrent adds for the same product both land here
// after at most one failed insert, and the increments serialize on the row
// lock instead of overwriting each other.
func (repo *cartRepository) AddItemQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) (*entity.CartItem, error) {
	var itemM model.CartItemModel

	err := repo.db.WithContext(ctx).Raw(`
		UPDATE cart_items
		SET quantity = quantity + ?, updated_at = now()
		WHERE cart_id = ? AND product_id = ?
		RETURNING *
	`, delta, cartID, productID).Scan(&itemM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to add cart item quantity")
	}

	if itemM.ID == uuid.Nil {
		return nil, repository.ErrCartItemNotFound
	}

	return itemM.ToEntity(), nil
}

// UpdateItem overwrites a line's quantity and unit price.
func (repo *cartRepository) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, price decimal.Decimal) (*entity.CartItem, error) {
	var itemM model.CartItemModel

	err := repo.db.WithContext(ctx).Raw(`
		UPDATE cart_items
		SET quantity = ?, price = ?, updated_at = now()
		WHERE id = ?
		RETURNING *
	`, quantity, price, itemID).Scan(&itemM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to update cart item")
	}

	if itemM.ID == uuid.Nil {
		return nil, repository.ErrCartItemNotFound
	}

	return itemM.ToEntity(), nil
}

// DeleteItem removes a single line.
func (repo *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&model.CartItemModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete cart item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// ResyncItemPrices rewrites stale line prices from the product catalog for
// one keyset-paged batch. Line prices are snapshots, so a line updated
// concurrently by a shopper may be overwritten here; the newer write wins
// either way and both values came from the same catalog.
func (repo *cartRepository) ResyncItemPrices(ctx context.Context, afterItemID uuid.UUID, batchSize int) (int64, uuid.UUID, error) {
	var ids []uuid.UUID

	err := repo.db.WithContext(ctx).Raw(`
		WITH batch AS (
			SELECT ci.id
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.id > ? AND ci.price <> p.price
			ORDER BY ci.id
			LIMIT ?
		)
		UPDATE cart_items ci
		SET price = p.price, updated_at = now()
		FROM products p, batch
		WHERE ci.id = batch.id AND p.id = ci.product_id
		RETURNING ci.id
	`, afterItemID, batchSize).Scan(&ids).Error
	if err != nil {
		return 0, uuid.Nil, errors.Wrap(err, "failed to resync cart item prices")
	}

	if len(ids) == 0 {
		return 0, uuid.Nil, nil
	}

	// RETURNING carries no ordering guarantee; find the cursor by hand.
	last := ids[0]
	for _, id := range ids[1:] {
		if bytes.Compare(id[:], last[:]) > 0 {
			last = id
		}
	}

	return int64(len(ids)), last, nil
}
