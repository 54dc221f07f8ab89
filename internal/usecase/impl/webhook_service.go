package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
	eventCheckoutComplete = "checkout.session.completed"

	// paymentClaimWindow is stamped on reconciled payments as expires_at.
	// It is informational; nothing currently enforces it.
	paymentClaimWindow = 30 * time.Minute
)

var minorUnitDivisor = decimal.NewFromInt(100)

// paymentIntentPayload is the slice of the provider's payment_intent object
// this service actually reads.
type paymentIntentPayload struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ReceiptEmail string `json:"receipt_email"`
}

// webhookService implements the WebhookUsecase interface.
//
// Idempotency is two-layered: processed event ids are recorded in
// webhook_events, and payment inserts are additionally guarded by the
// unique payment intent index. A redelivered event is acknowledged without
// side effects at whichever layer catches it first.
type webhookService struct {
	txManager repository.TransactionManager
	verifier  service.WebhookVerifier
	publisher service.EventPublisher
	logger    *slog.Logger
}

// WebhookServiceParams holds dependencies for WebhookService, injected by Fx.
type WebhookServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Verifier  service.WebhookVerifier
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewWebhookService is the constructor for webhookService.
func NewWebhookService(params WebhookServiceParams) usecase.WebhookUsecase {
	return &webhookService{
		txManager: params.TxManager,
		verifier:  params.Verifier,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *webhookService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// HandleEvent verifies, deduplicates and dispatches one webhook delivery.
// The signature gate comes first: an unverifiable payload is rejected
// before any of it is parsed or recorded.
func (srv *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := srv.verifier.VerifyAndParse(payload, signature)
	if err != nil {
		srv.log(ctx).Warn("Webhook signature verification failed", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrWebhookSignatureInvalid, "webhook rejected")
	}

	var reconciled *entity.Payment

	err = srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		eventRepo := factory.WebhookEventRepo()

		seen, err := eventRepo.Exists(ctx, event.ID)
		if err != nil {
			return errors.Wrap(err, "failed to check webhook event")
		}
		if seen {
			srv.log(ctx).Info("Webhook event already processed, acknowledging",
				slog.String("eventID", event.ID),
				slog.String("eventType", event.Type),
			)

			return nil
		}

		switch event.Type {
		case eventPaymentSucceeded:
			reconciled, err = srv.reconcileSucceededPayment(ctx, factory, event)
			if err != nil {
				return err
			}

		case eventPaymentFailed:
			// Deliberate no-op: no payment row exists before success, so
			// there is nothing to transition. Acknowledged and recorded.
			srv.log(ctx).Info("Payment failed event acknowledged",
				slog.String("eventID", event.ID),
			)

		case eventCheckoutComplete:
			srv.log(ctx).Info("Checkout session completed",
				slog.String("eventID", event.ID),
			)

		default:
			srv.log(ctx).Debug("Ignoring unhandled webhook event type",
				slog.String("eventType", event.Type),
			)
		}

		return eventRepo.MarkProcessed(ctx, event.ID, event.Type)
	})
	if err != nil {
		srv.log(ctx).Error("Webhook processing failed",
			slog.String("eventID", event.ID),
			slog.Any("error", err),
		)

		return errors.Wrap(domainerrors.ErrWebhookProcessingFailed, "webhook processing failed")
	}

	// Publish after commit, best-effort. A failed publish must not make the
	// provider redeliver an event we have fully reconciled.
	if reconciled != nil {
		srv.publishPaymentEvent(ctx, reconciled)
	}

	return nil
}

// reconcileSucceededPayment turns a provider success event into a local
// payment row. The provider reports amounts in minor units; the row stores
// major units.
func (srv *webhookService) reconcileSucceededPayment(ctx context.Context, factory repository.RepositoryFactory, event *service.ProviderEvent) (*entity.Payment, error) {
	var intent paymentIntentPayload
	if err := json.Unmarshal(event.Data, &intent); err != nil {
		return nil, errors.Wrap(err, "failed to decode payment intent payload")
	}

	if intent.ID != "" {
		recorded, err := factory.PaymentRepo().ExistsByPaymentIntentID(ctx, intent.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check existing payment")
		}
		if recorded {
			srv.log(ctx).Info("Payment intent already recorded, acknowledging",
				slog.String("paymentIntentID", intent.ID),
			)

			return nil, nil
		}
	}

	user, err := factory.UserRepo().FindByEmail(ctx, intent.ReceiptEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// No local account matches the payer. Dropping the event is the
			// documented outcome; the provider side keeps the money record.
			srv.log(ctx).Warn("Payment succeeded for unknown customer email, dropping",
				slog.String("eventID", event.ID),
				slog.String("paymentIntentID", intent.ID),
			)

			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to resolve payment user by email")
	}

	now := time.Now()
	intentID := intent.ID
	payment := &entity.Payment{
		UserID: user.ID,
		// Intent events carry no checkout session reference, so the
		// provider's event id fills the session column.
		StripeSessionID:       event.ID,
		StripePaymentIntentID: &intentID,
		CustomerEmail:         intent.ReceiptEmail,
		Amount:                decimal.NewFromInt(intent.Amount).Div(minorUnitDivisor),
		Currency:              intent.Currency,
		Status:                entity.PaymentStatusSucceeded,
		ExpiresAt:             now.Add(paymentClaimWindow),
		PaidAt:                &now,
	}

	if err := factory.PaymentRepo().Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			// Lost a race against a concurrent delivery of the same intent.
			srv.log(ctx).Info("Payment already recorded by concurrent delivery",
				slog.String("paymentIntentID", intent.ID),
			)

			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to record payment")
	}

	srv.log(ctx).Info("Payment reconciled",
		slog.Any("paymentID", payment.ID),
		slog.Any("userID", user.ID),
		slog.String("paymentIntentID", intent.ID),
	)

	return payment, nil
}

func (srv *webhookService) publishPaymentEvent(ctx context.Context, payment *entity.Payment) {
	event := &service.PaymentEvent{
		PaymentID:     payment.ID,
		UserID:        payment.UserID,
		CustomerEmail: payment.CustomerEmail,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        string(payment.Status),
		OccurredAt:    time.Now(),
	}

	if err := srv.publisher.PublishPaymentEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish payment event",
			slog.Any("paymentID", payment.ID),
			slog.Any("error", err),
		)
	}
}
