package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	return m.Called(ctx, userID, customerID).Error(0)
}

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*entity.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Category), args.Error(1)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return m.Called(ctx, category).Error(0)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *mockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *mockCartRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *mockCartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCartRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.CartItem), args.Error(1)
}

func (m *mockCartRepository) CreateItem(ctx context.Context, item *entity.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCartRepository) AddItemQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) (*entity.CartItem, error) {
	args := m.Called(ctx, cartID, productID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.CartItem), args.Error(1)
}

func (m *mockCartRepository) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, price decimal.Decimal) (*entity.CartItem, error) {
	args := m.Called(ctx, itemID, quantity, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.CartItem), args.Error(1)
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *mockCartRepository) ResyncItemPrices(ctx context.Context, afterItemID uuid.UUID, batchSize int) (int64, uuid.UUID, error) {
	args := m.Called(ctx, afterItemID, batchSize)

	return args.Get(0).(int64), args.Get(1).(uuid.UUID), args.Error(2)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockPaymentRepository) ExistsByPaymentIntentID(ctx context.Context, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, paymentIntentID)

	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Payment), args.Error(1)
}

type mockWebhookEventRepository struct {
	mock.Mock
}

func (m *mockWebhookEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)

	return args.Bool(0), args.Error(1)
}

func (m *mockWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string, eventType string) error {
	return m.Called(ctx, eventID, eventType).Error(0)
}

// mockRepositoryFactory hands out the fixed set of repository doubles a test
// configured, standing in for a per-transaction factory.
type mockRepositoryFactory struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cartRepo         repository.CartRepository
	paymentRepo      repository.PaymentRepository
	webhookEventRepo repository.WebhookEventRepository
}

func (f *mockRepositoryFactory) UserRepo() repository.UserRepository {
	return f.userRepo
}

func (f *mockRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.refreshTokenRepo
}

func (f *mockRepositoryFactory) CartRepo() repository.CartRepository {
	return f.cartRepo
}

func (f *mockRepositoryFactory) PaymentRepo() repository.PaymentRepository {
	return f.paymentRepo
}

func (f *mockRepositoryFactory) WebhookEventRepo() repository.WebhookEventRepository {
	return f.webhookEventRepo
}

// mockTransactionManager runs the transactional function directly against
// the configured factory; commit and rollback are out of scope here.
type mockTransactionManager struct {
	factory *mockRepositoryFactory
}

func (m *mockTransactionManager) Execute(_ context.Context, fn func(factory repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Verify(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockTokenService) RefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)

	return args.String(0), args.Error(1)
}

func (m *mockPaymentGateway) CreatePaymentIntent(ctx context.Context, customerID string, amount decimal.Decimal, currency, receiptEmail string) (*service.PaymentIntent, error) {
	args := m.Called(ctx, customerID, amount, currency, receiptEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.PaymentIntent), args.Error(1)
}

type mockWebhookVerifier struct {
	mock.Mock
}

func (m *mockWebhookVerifier) VerifyAndParse(payload []byte, signature string) (*service.ProviderEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.ProviderEvent), args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishPaymentEvent(ctx context.Context, event *service.PaymentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}
