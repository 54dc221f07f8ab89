package postgres

import (
	"context"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// webhookEventRepository implements the repository.WebhookEventRepository interface.
type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository is the constructor for webhookEventRepository.
func NewWebhookEventRepository(db *gorm.DB) repository.WebhookEventRepository {
	return &webhookEventRepository{
		db: db,
	}
}

// Exists reports whether the provider event was already handled.
func (repo *webhookEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.WebhookEventModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check webhook event existence")
	}

	return count > 0, nil
}

// MarkProcessed records the provider event as handled. Marking an event
// twice is treated as success; the row already says what we came to say.
func (repo *webhookEventRepository) MarkProcessed(ctx context.Context, eventID string, eventType string) error {
	eventM := &model.WebhookEventModel{
		EventID:   eventID,
		EventType: eventType,
	}

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to mark webhook event processed")
	}

	return nil
}
