package impl

import (
	"context"
	"encoding/json"
	"testing"

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

type webhookServiceFixtures struct {
	service   usecase.WebhookUsecase
	verifier  *mockWebhookVerifier
	publisher *mockEventPublisher
	userRepo  *mockUserRepository
	payments  *mockPaymentRepository
	events    *mockWebhookEventRepository
}

func createTestWebhookService(t *testing.T) webhookServiceFixtures {
	t.Helper()

	verifier := new(mockWebhookVerifier)
	publisher := new(mockEventPublisher)
	userRepo := new(mockUserRepository)
	payments := new(mockPaymentRepository)
	events := new(mockWebhookEventRepository)

	txManager := &mockTransactionManager{
		factory: &mockRepositoryFactory{
			userRepo:         userRepo,
			paymentRepo:      payments,
			webhookEventRepo: events,
		},
	}

	service := NewWebhookService(WebhookServiceParams{
		TxManager: txManager,
		Verifier:  verifier,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	})

	return webhookServiceFixtures{
		service:   service,
		verifier:  verifier,
		publisher: publisher,
		userRepo:  userRepo,
		payments:  payments,
		events:    events,
	}
}

func successEvent(t *testing.T, eventID, intentID, email string, amountMinor int64) *service.ProviderEvent {
	t.Helper()

	data, err := json.Marshal(map[string]any{
		"id":            intentID,
		"amount":        amountMinor,
		"currency":      "usd",
		"receipt_email": email,
	})
	require.NoError(t, err)

	return &service.ProviderEvent{
		ID:   eventID,
		Type: "payment_intent.succeeded",
		Data: data,
	}
}

func TestWebhookService_HandleEvent_InvalidSignature(t *testing.T) {
	fx := createTestWebhookService(t)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "bad-sig").
		Return(nil, errors.New("signature mismatch"))

	err := fx.service.HandleEvent(context.Background(), []byte("payload"), "bad-sig")

	assert.ErrorIs(t, err, domainerrors.ErrWebhookSignatureInvalid)
	fx.events.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleEvent_ReconcilesPayment(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "buyer@example.com"}
	event := successEvent(t, "evt_1", "pi_1", user.Email, 2499)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_1").Return(false, nil)
	fx.payments.On("ExistsByPaymentIntentID", ctx, "pi_1").Return(false, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	var recorded *entity.Payment
	fx.payments.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*entity.Payment)
		}).
		Return(nil)
	fx.events.On("MarkProcessed", ctx, "evt_1", "payment_intent.succeeded").Return(nil)
	fx.publisher.On("PublishPaymentEvent", ctx, mock.AnythingOfType("*service.PaymentEvent")).Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, user.ID, recorded.UserID)
	assert.Equal(t, entity.PaymentStatusSucceeded, recorded.Status)
	// 2499 minor units become 24.99 major units.
	assert.True(t, recorded.Amount.Equal(decimal.RequireFromString("24.99")))
	require.NotNil(t, recorded.PaidAt)
	assert.True(t, recorded.IsPaid())
	fx.publisher.AssertExpectations(t)
	fx.events.AssertExpectations(t)
}

func TestWebhookService_HandleEvent_DuplicateEventIsAcknowledged(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := successEvent(t, "evt_dup", "pi_dup", "buyer@example.com", 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_dup").Return(true, nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
	fx.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishPaymentEvent", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleEvent_DuplicateIntentIsAcknowledged(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := successEvent(t, "evt_2", "pi_seen", "buyer@example.com", 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_2").Return(false, nil)
	fx.payments.On("ExistsByPaymentIntentID", ctx, "pi_seen").Return(true, nil)
	fx.events.On("MarkProcessed", ctx, "evt_2", "payment_intent.succeeded").Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
	fx.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishPaymentEvent", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleEvent_UnknownEmailIsDropped(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := successEvent(t, "evt_3", "pi_3", "nobody@example.com", 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_3").Return(false, nil)
	fx.payments.On("ExistsByPaymentIntentID", ctx, "pi_3").Return(false, nil)
	fx.userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)
	fx.events.On("MarkProcessed", ctx, "evt_3", "payment_intent.succeeded").Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	// The event is still acknowledged and recorded so the provider stops
	// redelivering it.
	require.NoError(t, err)
	fx.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.events.AssertExpectations(t)
}

func TestWebhookService_HandleEvent_ConcurrentDeliveryLosesInsertRace(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "buyer@example.com"}
	event := successEvent(t, "evt_4", "pi_4", user.Email, 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_4").Return(false, nil)
	fx.payments.On("ExistsByPaymentIntentID", ctx, "pi_4").Return(false, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.payments.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).
		Return(repository.ErrDuplicatePayment)
	fx.events.On("MarkProcessed", ctx, "evt_4", "payment_intent.succeeded").Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
	fx.publisher.AssertNotCalled(t, "PublishPaymentEvent", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleEvent_FailedPaymentIsNoOp(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := &service.ProviderEvent{
		ID:   "evt_fail",
		Type: "payment_intent.payment_failed",
		Data: []byte(`{"id":"pi_fail"}`),
	}

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_fail").Return(false, nil)
	fx.events.On("MarkProcessed", ctx, "evt_fail", "payment_intent.payment_failed").Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
	fx.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleEvent_UnknownTypeIsAcknowledged(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := &service.ProviderEvent{
		ID:   "evt_other",
		Type: "customer.updated",
		Data: []byte(`{}`),
	}

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_other").Return(false, nil)
	fx.events.On("MarkProcessed", ctx, "evt_other", "customer.updated").Return(nil)

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
}

func TestWebhookService_HandleEvent_PublishFailureDoesNotFailEvent(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "buyer@example.com"}
	event := successEvent(t, "evt_5", "pi_5", user.Email, 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_5").Return(false, nil)
	fx.payments.On("ExistsByPaymentIntentID", ctx, "pi_5").Return(false, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.payments.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil)
	fx.events.On("MarkProcessed", ctx, "evt_5", "payment_intent.succeeded").Return(nil)
	fx.publisher.On("PublishPaymentEvent", ctx, mock.AnythingOfType("*service.PaymentEvent")).
		Return(errors.New("broker unavailable"))

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	require.NoError(t, err)
}

func TestWebhookService_HandleEvent_StoreFailureIsProcessingError(t *testing.T) {
	fx := createTestWebhookService(t)
	ctx := context.Background()
	event := successEvent(t, "evt_6", "pi_6", "buyer@example.com", 100)

	fx.verifier.On("VerifyAndParse", []byte("payload"), "sig").Return(event, nil)
	fx.events.On("Exists", ctx, "evt_6").Return(false, errors.New("connection refused"))

	err := fx.service.HandleEvent(ctx, []byte("payload"), "sig")

	assert.ErrorIs(t, err, domainerrors.ErrWebhookProcessingFailed)
}
