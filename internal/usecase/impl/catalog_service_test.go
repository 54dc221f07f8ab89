package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogServiceFixtures struct {
	service      usecase.CatalogUsecase
	productRepo  *mockProductRepository
	categoryRepo *mockCategoryRepository
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	t.Helper()

	productRepo := new(mockProductRepository)
	categoryRepo := new(mockCategoryRepository)

	svc := NewCatalogService(CatalogServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		Logger:       newDiscardLogger(),
	})

	return catalogServiceFixtures{
		service:      svc,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func TestCatalogService_ListProducts_FilteredByCategory(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	categoryID := uuid.New()
	expected := []*entity.Product{{ID: uuid.New(), CategoryID: categoryID}}

	fx.productRepo.On("List", ctx, &categoryID).Return(expected, nil)

	products, err := fx.service.ListProducts(ctx, &categoryID)

	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.On("FindByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.GetProduct(ctx, productID)

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	category := &entity.Category{ID: uuid.New(), Name: "Books"}
	input := &usecase.CreateProductInput{
		CategoryID: category.ID,
		Name:       "Go in Practice",
		Price:      decimal.RequireFromString("34.90"),
	}

	fx.categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	fx.productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Product).ID = uuid.New()
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, input.Name, product.Name)
	assert.True(t, product.Price.Equal(input.Price))
}

func TestCatalogService_CreateProduct_NegativePrice(t *testing.T) {
	fx := createTestCatalogService(t)

	_, err := fx.service.CreateProduct(context.Background(), &usecase.CreateProductInput{
		CategoryID: uuid.New(),
		Name:       "Broken",
		Price:      decimal.RequireFromString("-1.00"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	categoryID := uuid.New()

	fx.categoryRepo.On("FindByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	_, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		CategoryID: categoryID,
		Name:       "Orphan",
		Price:      decimal.RequireFromString("1.00"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}

func TestCatalogService_CreateCategory_Success(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()

	fx.categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Category).ID = uuid.New()
		}).
		Return(nil)

	category, err := fx.service.CreateCategory(ctx, &usecase.CreateCategoryInput{Name: "Games"})

	require.NoError(t, err)
	assert.Equal(t, "Games", category.Name)
}
