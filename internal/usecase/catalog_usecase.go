package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// CatalogUsecase defines the browse and minimal write surface of the catalog.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)
}
