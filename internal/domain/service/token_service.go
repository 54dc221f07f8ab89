package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenService issues and validates the access/refresh token pair.
type TokenService interface {
	// GenerateTokens creates a short-lived access token and a long-lived
	// refresh token for the user.
	GenerateTokens(userID uuid.UUID) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken verifies an access token and returns the user ID
	// embedded in it.
	ValidateAccessToken(token string) (uuid.UUID, error)

	// ValidateRefreshToken verifies a refresh token and returns the user ID
	// embedded in it.
	ValidateRefreshToken(token string) (uuid.UUID, error)

	// RefreshTokenDuration reports the refresh token lifetime, used when
	// persisting session rows.
	RefreshTokenDuration() time.Duration
}
