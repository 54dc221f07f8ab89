package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const fallbackCurrency = "usd"

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	userRepo        repository.UserRepository
	paymentRepo     repository.PaymentRepository
	gateway         service.PaymentGateway
	defaultCurrency string
	logger          *slog.Logger
}

// PaymentServiceParams holds dependencies for PaymentService, injected by Fx.
type PaymentServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	PaymentRepo repository.PaymentRepository
	Gateway     service.PaymentGateway
	Config      *config.Config
	Logger      *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	defaultCurrency := fallbackCurrency
	if params.Config != nil && params.Config.Stripe != nil && params.Config.Stripe.DefaultCurrency != "" {
		defaultCurrency = params.Config.Stripe.DefaultCurrency
	}

	return &paymentService{
		userRepo:        params.UserRepo,
		paymentRepo:     params.PaymentRepo,
		gateway:         params.Gateway,
		defaultCurrency: defaultCurrency,
		logger:          params.Logger,
	}
}

func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout opens a payment intent with the provider. Provider error details
// are logged but never surfaced to the caller; the API reports a generic
// processing failure.
func (srv *paymentService) Checkout(ctx context.Context, userID uuid.UUID, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "amount must be positive")
	}

	currency := input.Currency
	if currency == "" {
		currency = srv.defaultCurrency
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "checkout failed")
		}

		return nil, errors.Wrap(err, "failed to find user for checkout")
	}

	customerID, err := srv.ensureCustomer(ctx, user)
	if err != nil {
		srv.log(ctx).Error("Failed to register provider customer",
			slog.Any("userID", userID),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(domainerrors.ErrPaymentProcessingFailed, "checkout failed")
	}

	intent, err := srv.gateway.CreatePaymentIntent(ctx, customerID, input.Amount, currency, user.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to create payment intent",
			slog.Any("userID", userID),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(domainerrors.ErrPaymentProcessingFailed, "checkout failed")
	}

	srv.log(ctx).Info("Payment intent created",
		slog.Any("userID", userID),
		slog.String("paymentIntentID", intent.ID),
		slog.String("currency", currency),
	)

	return &usecase.CheckoutOutput{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// ListPayments returns the user's reconciled payments.
func (srv *paymentService) ListPayments(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error) {
	payments, err := srv.paymentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	return payments, nil
}

// ensureCustomer returns the user's provider customer id, registering the
// user with the provider on first checkout.
func (srv *paymentService) ensureCustomer(ctx context.Context, user *entity.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := srv.gateway.CreateCustomer(ctx, user.Email, user.Name)
	if err != nil {
		return "", errors.Wrap(err, "failed to create provider customer")
	}

	if err := srv.userRepo.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
		// The provider-side customer exists; failing the checkout over a
		// bookkeeping write would only create another customer next time.
		srv.log(ctx).Warn("Failed to persist provider customer id",
			slog.Any("userID", user.ID),
			slog.Any("error", err),
		)
	}

	return customerID, nil
}
