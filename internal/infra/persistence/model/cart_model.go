package model

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the GORM model for the carts table.
//
// Exactly one of UserID and SessionID is set per row. The partial unique
// indexes guarantee at most one cart per user and one per guest session,
// which is what makes concurrent get-or-create safe: the loser of an
// insert race gets a duplicate-key error and re-reads the winner.
type CartModel struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v7()"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex:idx_carts_user_id,where:user_id IS NOT NULL"`
	SessionID *string    `gorm:"column:session_id;type:varchar(255);uniqueIndex:idx_carts_session_id,where:session_id IS NOT NULL"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;default:now()"`

	Items []*CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	User  *UserModel       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the CartModel.
func (CartModel) TableName() string {
	return "carts"
}

// ToEntity converts the persistence model to a domain entity. A cart with
// no item rows maps to an empty slice, not nil.
func (m *CartModel) ToEntity() *entity.Cart {
	items := make([]*entity.CartItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, item.ToEntity())
	}

	return &entity.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		SessionID: m.SessionID,
		Items:     items,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromCartEntity converts a domain entity to a persistence model. Items are
// intentionally not mapped; lines are managed row by row.
func FromCartEntity(cart *entity.Cart) *CartModel {
	return &CartModel{
		ID:        cart.ID,
		UserID:    cart.UserID,
		SessionID: cart.SessionID,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

// CartItemModel is the GORM model for the cart_items table. The composite
// unique index keeps one line per product per cart; a concurrent add for
// the same product loses the insert race and falls back to an atomic
// quantity increment.
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v7()"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time       `gorm:"column:updated_at;not null;default:now()"`

	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for the CartItemModel.
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToEntity converts the persistence model to a domain entity.
func (m *CartItemModel) ToEntity() *entity.CartItem {
	return &entity.CartItem{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromCartItemEntity converts a domain entity to a persistence model.
func FromCartItemEntity(item *entity.CartItem) *CartItemModel {
	return &CartItemModel{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
