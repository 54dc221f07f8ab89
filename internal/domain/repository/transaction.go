package repository

import "context"

// RepositoryFactory provides access to the repositories participating in a
// single transaction. Every repository obtained from one factory shares the
// same underlying transaction handle.
type RepositoryFactory interface {
	UserRepo() UserRepository
	RefreshTokenRepo() RefreshTokenRepository
	CartRepo() CartRepository
	PaymentRepo() PaymentRepository
	WebhookEventRepo() WebhookEventRepository
}

// TransactionManager runs a function within a database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(factory RepositoryFactory) error) error
}
