package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/example/taskapi/internal/ports/secondary"
)

// secretBytes is the entropy of a bearer secret.
const secretBytes = 32

// TokenGenerator implements secondary.TokenGenerator.
// Only the SHA-256 digest of a secret is ever persisted.
type TokenGenerator struct{}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a fresh URL-safe secret and its digest.
func (g *TokenGenerator) Generate() (string, string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	plain := base64.RawURLEncoding.EncodeToString(buf)
	return plain, g.Hash(plain), nil
}

// Hash returns the hex SHA-256 digest of a secret.
func (g *TokenGenerator) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Ensure TokenGenerator implements the interface
var _ secondary.TokenGenerator = (*TokenGenerator)(nil)
