package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrRefreshTokenNotFound is returned when no token matches the lookup.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrRefreshTokenExpired is returned when a matching token has passed its expiry.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// RefreshTokenRepository defines persistence for login sessions.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new refresh token, representing a user session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a token record by its stored hash.
	// Expired tokens are reported as ErrRefreshTokenExpired.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshToken removes a single session.
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error
}
