package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a single login session. Only the SHA-256 hash of
// the issued token is persisted; the plaintext is returned to the caller
// once and never stored.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
