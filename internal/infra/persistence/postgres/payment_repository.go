package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// paymentRepository implements the repository.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// Create inserts a reconciled payment. The unique index on the payment
// intent id turns a replayed insert into ErrDuplicatePayment.
func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := model.FromPaymentEntity(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePayment
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}

	payment.ID = paymentM.ID
	payment.CreatedAt = paymentM.CreatedAt
	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// ExistsByPaymentIntentID reports whether a payment for the given provider
// intent has already been recorded.
func (repo *paymentRepository) ExistsByPaymentIntentID(ctx context.Context, paymentIntentID string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("stripe_payment_intent_id = ?", paymentIntentID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check payment existence by intent id")
	}

	return count > 0, nil
}

// ListByUserID retrieves a user's payments, newest first.
func (repo *paymentRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error) {
	var paymentModels []*model.PaymentModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list payments by user")
	}

	payments := make([]*entity.Payment, 0, len(paymentModels))
	for _, paymentM := range paymentModels {
		payments = append(payments, paymentM.ToEntity())
	}

	return payments, nil
}
