package secondary

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenGenerator mints opaque bearer secrets and derives their stored hash.
type TokenGenerator interface {
	// Generate returns a new plaintext secret and its hash.
	Generate() (plain, hash string, err error)

	// Hash derives the stored hash of a presented secret.
	Hash(plain string) string
}
