package repository

import "context"

// WebhookEventRepository tracks provider event IDs that have already been
// processed, so redelivered webhooks become no-ops.
type WebhookEventRepository interface {
	// Exists reports whether the provider event was already handled.
	Exists(ctx context.Context, eventID string) (bool, error)

	// MarkProcessed records the provider event as handled.
	MarkProcessed(ctx context.Context, eventID string, eventType string) error
}
