// Package service defines domain-level service interfaces implemented by the
// infrastructure layer.
package service

// PasswordHasher abstracts password hashing and verification.
type PasswordHasher interface {
	// Hash generates a one-way hash of the given plaintext password.
	Hash(password string) (string, error)

	// Verify compares a plaintext password against a stored hash.
	Verify(hashedPassword, password string) error
}
