// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. The password hash never leaves the
// persistence boundary except through this struct; it is excluded from
// every serialized representation.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"` // Primary contact email, used as the login identifier.
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	StripeCustomerID *string   `json:"-"` // Provider-side customer id, persisted at first checkout.
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
