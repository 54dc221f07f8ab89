package impl

import (
	"context"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixtures struct {
	service  usecase.PaymentUsecase
	userRepo *mockUserRepository
	payments *mockPaymentRepository
	gateway  *mockPaymentGateway
}

func createTestPaymentService(t *testing.T) paymentServiceFixtures {
	t.Helper()

	userRepo := new(mockUserRepository)
	payments := new(mockPaymentRepository)
	gateway := new(mockPaymentGateway)

	svc := NewPaymentService(PaymentServiceParams{
		UserRepo:    userRepo,
		PaymentRepo: payments,
		Gateway:     gateway,
		Config: &config.Config{
			Stripe: &config.StripeConfig{DefaultCurrency: "usd"},
		},
		Logger: newDiscardLogger(),
	})

	return paymentServiceFixtures{
		service:  svc,
		userRepo: userRepo,
		payments: payments,
		gateway:  gateway,
	}
}

func TestPaymentService_Checkout_ReusesExistingCustomer(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	customerID := "cus_existing"
	user := &entity.User{
		ID:               uuid.New(),
		Email:            "buyer@example.com",
		StripeCustomerID: &customerID,
	}
	amount := decimal.RequireFromString("49.99")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.gateway.On("CreatePaymentIntent", ctx, customerID, amount, "usd", user.Email).
		Return(&service.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)

	output, err := fx.service.Checkout(ctx, user.ID, &usecase.CheckoutInput{Amount: amount})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", output.PaymentIntentID)
	assert.Equal(t, "pi_1_secret", output.ClientSecret)
	fx.gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Checkout_RegistersCustomerOnFirstUse(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "new@example.com", Name: "New Buyer"}
	amount := decimal.RequireFromString("10.00")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.gateway.On("CreateCustomer", ctx, user.Email, user.Name).Return("cus_new", nil)
	fx.userRepo.On("SetStripeCustomerID", ctx, user.ID, "cus_new").Return(nil)
	fx.gateway.On("CreatePaymentIntent", ctx, "cus_new", amount, "eur", user.Email).
		Return(&service.PaymentIntent{ID: "pi_2", ClientSecret: "pi_2_secret"}, nil)

	output, err := fx.service.Checkout(ctx, user.ID, &usecase.CheckoutInput{
		Amount:   amount,
		Currency: "eur",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_2", output.PaymentIntentID)
	fx.userRepo.AssertExpectations(t)
	fx.gateway.AssertExpectations(t)
}

func TestPaymentService_Checkout_NonPositiveAmount(t *testing.T) {
	fx := createTestPaymentService(t)

	_, err := fx.service.Checkout(context.Background(), uuid.New(), &usecase.CheckoutInput{
		Amount: decimal.Zero,
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPaymentService_Checkout_UnknownUser(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Checkout(ctx, userID, &usecase.CheckoutInput{
		Amount: decimal.RequireFromString("1.00"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestPaymentService_Checkout_ProviderErrorIsOpaque(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	customerID := "cus_1"
	user := &entity.User{ID: uuid.New(), Email: "buyer@example.com", StripeCustomerID: &customerID}
	amount := decimal.RequireFromString("5.00")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.gateway.On("CreatePaymentIntent", ctx, customerID, amount, "usd", user.Email).
		Return(nil, errors.New("card_declined: insufficient_funds"))

	_, err := fx.service.Checkout(ctx, user.ID, &usecase.CheckoutInput{Amount: amount})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentProcessingFailed)
	// Provider detail must not leak into the returned error chain.
	assert.NotContains(t, err.Error(), "card_declined")
}

func TestPaymentService_Checkout_CustomerPersistFailureIsTolerated(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer"}
	amount := decimal.RequireFromString("3.00")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.gateway.On("CreateCustomer", ctx, user.Email, user.Name).Return("cus_2", nil)
	fx.userRepo.On("SetStripeCustomerID", ctx, user.ID, "cus_2").Return(errors.New("timeout"))
	fx.gateway.On("CreatePaymentIntent", ctx, "cus_2", amount, "usd", user.Email).
		Return(&service.PaymentIntent{ID: "pi_3", ClientSecret: "pi_3_secret"}, nil)

	output, err := fx.service.Checkout(ctx, user.ID, &usecase.CheckoutInput{Amount: amount})

	require.NoError(t, err)
	assert.Equal(t, "pi_3", output.PaymentIntentID)
}

func TestPaymentService_ListPayments(t *testing.T) {
	fx := createTestPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	expected := []*entity.Payment{
		{ID: uuid.New(), UserID: userID, Status: entity.PaymentStatusSucceeded},
	}

	fx.payments.On("ListByUserID", ctx, userID).Return(expected, nil)

	payments, err := fx.service.ListPayments(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, expected[0].ID, payments[0].ID)
}
