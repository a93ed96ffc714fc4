// Package security implements credential handling: bcrypt password hashes and
// opaque bearer tokens stored as SHA-256 digests.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/taskapi/internal/ports/secondary"
)

// BcryptHasher implements secondary.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost outside bcrypt's range uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Ensure BcryptHasher implements the interface
var _ secondary.PasswordHasher = (*BcryptHasher)(nil)
