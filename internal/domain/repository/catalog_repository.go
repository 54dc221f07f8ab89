package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when a product lookup matches no row.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when a category lookup matches no row.
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves products, optionally filtered by category.
	List(ctx context.Context, categoryID *uuid.UUID) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error
}

// CategoryRepository defines the persistence operations for categories.
type CategoryRepository interface {
	// FindByID retrieves a single category by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// List retrieves all categories.
	List(ctx context.Context) ([]*entity.Category, error)

	// Create persists a new category.
	Create(ctx context.Context, category *entity.Category) error
}
